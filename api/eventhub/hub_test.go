package eventhub

import (
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/moyoez/qrshare-go/types"
)

func TestBroadcastReachesClient(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := New()
	router := gin.New()
	router.GET("/events", HandleEventsWS(hub))

	srv := httptest.NewServer(router)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/events"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// registration happens in the handler goroutine after the upgrade
	deadline := time.Now().Add(2 * time.Second)
	for {
		hub.mu.RLock()
		n := len(hub.conns)
		hub.mu.RUnlock()
		if n == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("connection never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	hub.Broadcast(&types.Event{
		Type:    types.EventUploadReceived,
		Message: "a.txt",
	})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var ev types.Event
	if err := sonic.Unmarshal(payload, &ev); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ev.Type != types.EventUploadReceived || ev.Message != "a.txt" {
		t.Errorf("event = %+v", ev)
	}
}

func TestConcurrentBroadcastsToOneClient(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := New()
	router := gin.New()
	router.GET("/events", HandleEventsWS(hub))

	srv := httptest.NewServer(router)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/events"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for {
		hub.mu.RLock()
		n := len(hub.conns)
		hub.mu.RUnlock()
		if n == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("connection never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	// many handler goroutines broadcasting at once must not interleave
	// frames on the shared connection
	const events = 16
	var wg sync.WaitGroup
	for i := 0; i < events; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			hub.Broadcast(&types.Event{
				Type:    types.EventDownloadStarted,
				Message: "file-" + strconv.Itoa(i) + ".txt",
			})
		}(i)
	}
	wg.Wait()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	seen := map[string]bool{}
	for i := 0; i < events; i++ {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read %d: %v", i, err)
		}
		var ev types.Event
		if err := sonic.Unmarshal(payload, &ev); err != nil {
			t.Fatalf("frame %d is not valid JSON: %v", i, err)
		}
		if ev.Type != types.EventDownloadStarted || seen[ev.Message] {
			t.Errorf("frame %d = %+v", i, ev)
		}
		seen[ev.Message] = true
	}
	if len(seen) != events {
		t.Errorf("received %d distinct events, want %d", len(seen), events)
	}
}

func TestBroadcastWithoutClients(t *testing.T) {
	hub := New()
	hub.Broadcast(nil)
	hub.Broadcast(&types.Event{Type: types.EventServerStopping})
}
