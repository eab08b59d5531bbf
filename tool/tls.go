package tool

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	cryptorand "crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"fmt"
	"math/big"
	"time"

	"github.com/moyoez/qrshare-go/types"
)

// GetOrCreateTLSCertFromConfig loads the TLS certificate stored in the
// config or generates a new self-signed one. Certificate content lives in
// the config's CertPEM and KeyPEM fields so restarts keep the same cert.
func GetOrCreateTLSCertFromConfig(cfg *types.AppConfig) (certDER []byte, keyDER []byte, err error) {
	if cfg.CertPEM != "" && cfg.KeyPEM != "" {
		certDER, keyDER, err = loadTLSCertFromPEM(cfg.CertPEM, cfg.KeyPEM)
		if err == nil {
			DefaultLogger.Infof("Loaded existing TLS certificate from config")
			return certDER, keyDER, nil
		}
		DefaultLogger.Warnf("Certificate in config is invalid or expired: %v, regenerating...", err)
	}

	certDER, keyDER, err = generateTLSCert()
	if err != nil {
		return nil, nil, err
	}

	cfg.CertPEM = string(pem.EncodeToMemory(&pem.Block{
		Type:  "CERTIFICATE",
		Bytes: certDER,
	}))
	cfg.KeyPEM = string(pem.EncodeToMemory(&pem.Block{
		Type:  "EC PRIVATE KEY",
		Bytes: keyDER,
	}))

	DefaultLogger.Infof("TLS certificate generated and stored in config")
	return certDER, keyDER, nil
}

// loadTLSCertFromPEM loads TLS certificate and key from PEM strings.
// If certificate is expired, returns error.
func loadTLSCertFromPEM(certPEMStr, keyPEMStr string) (certDER []byte, keyDER []byte, err error) {
	certBlock, _ := pem.Decode([]byte(certPEMStr))
	if certBlock == nil {
		return nil, nil, fmt.Errorf("failed to decode certificate PEM")
	}

	keyBlock, _ := pem.Decode([]byte(keyPEMStr))
	if keyBlock == nil {
		return nil, nil, fmt.Errorf("failed to decode key PEM")
	}

	cert, err := x509.ParseCertificate(certBlock.Bytes)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse certificate: %v", err)
	}

	if time.Now().After(cert.NotAfter) {
		return nil, nil, fmt.Errorf("certificate has expired")
	}

	return certBlock.Bytes, keyBlock.Bytes, nil
}

// generateTLSCert generates a new self-signed TLS certificate and private key.
func generateTLSCert() (certDER []byte, keyDER []byte, err error) {
	privateKey, err := ecdsa.GenerateKey(elliptic.P256(), cryptorand.Reader)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate ECDSA private key: %v", err)
	}

	cert := x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject: pkix.Name{
			CommonName:   "qrshare-localCert",
			Organization: []string{"qrshare-localCert"},
		},
		NotBefore:   time.Now(),
		NotAfter:    time.Now().Add(time.Hour * 24 * 365), // 1 year validity
		KeyUsage:    x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment,
		ExtKeyUsage: []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
	}

	certBytes, err := x509.CreateCertificate(cryptorand.Reader, &cert, &cert, &privateKey.PublicKey, privateKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create certificate: %v", err)
	}

	privateKeyBytes, err := x509.MarshalECPrivateKey(privateKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal ECDSA private key: %v", err)
	}

	return certBytes, privateKeyBytes, nil
}
