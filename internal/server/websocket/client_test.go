package websocket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	gws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuncanbit/lnpay/internal/domain/models"
)

var testUpgrader = gws.Upgrader{}

// dialTestConn upgrades a loopback connection; the server side drains
// frames until the client hangs up.
func dialTestConn(t *testing.T) *gws.Conn {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, resp, err := gws.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	return conn
}

func statusUpdate() *models.StatusUpdate {
	return &models.StatusUpdate{
		Type:      "payment_intent_completed",
		Status:    "approved",
		Timestamp: time.Now(),
	}
}

func TestClient_SendAndClose(t *testing.T) {
	client := NewClient(dialTestConn(t))

	assert.True(t, client.IsActive())
	assert.NoError(t, client.Send(statusUpdate()))

	require.NoError(t, client.Close())
	assert.False(t, client.IsActive())
	assert.ErrorIs(t, client.Send(statusUpdate()), ErrClientInactive)

	// Repeated Close is a no-op.
	assert.NoError(t, client.Close())
}

func TestClient_ConcurrentSendAndClose(t *testing.T) {
	client := NewClient(dialTestConn(t))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			client.Send(statusUpdate())
			client.IsActive()
			client.Close()
		}()
	}
	wg.Wait()

	assert.False(t, client.IsActive())
	assert.ErrorIs(t, client.Send(statusUpdate()), ErrClientInactive)
}
