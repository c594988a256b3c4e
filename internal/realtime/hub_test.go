package realtime

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribePublishUnsubscribe(t *testing.T) {
	h := NewHub(nil, zerolog.Nop())

	var got []Event
	unsub := h.Subscribe(ChannelOrders, func(ev Event) { got = append(got, ev) })
	other := h.Subscribe(ChannelCheckoutSessions, func(Event) { t.Fatal("wrong channel") })
	defer other()

	h.Publish(ChannelOrders, EventInsert, map[string]string{"id": "1"})
	require.Len(t, got, 1)
	assert.Equal(t, EventInsert, got[0].Type)
	assert.Equal(t, ChannelOrders, got[0].Channel)
	assert.Equal(t, 1, h.ListenerCount(ChannelOrders))

	unsub()
	unsub()
	assert.Equal(t, 0, h.ListenerCount(ChannelOrders))

	h.Publish(ChannelOrders, EventUpdate, nil)
	assert.Len(t, got, 1)
}

func TestWebsocketReceivesGrantedChannelsOnly(t *testing.T) {
	h := NewHub(nil, zerolog.Nop())
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.ServeHTTP(w, r, []string{"admin_live:angola"})
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool {
		h.mu.RLock()
		defer h.mu.RUnlock()
		return len(h.connections) == 1
	}, time.Second, 10*time.Millisecond)

	h.Publish("admin_live:mozambique", EventSnapshot, "no")
	h.Publish("admin_live:angola", EventSnapshot, map[string]int{"orders": 3})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var ev Event
	require.NoError(t, json.Unmarshal(data, &ev))
	assert.Equal(t, "admin_live:angola", ev.Channel)
	assert.Equal(t, EventSnapshot, ev.Type)
}
