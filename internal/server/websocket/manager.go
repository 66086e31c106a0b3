package websocket

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tuncanbit/lnpay/internal/domain/interfaces"
	"github.com/tuncanbit/lnpay/internal/domain/models"
)

// Manager fans payment status updates out to every subscribed client.
type Manager struct {
	clients   map[string]interfaces.WebSocketClient
	clientsMu sync.RWMutex
}

func NewManager() interfaces.WebSocketManager {
	manager := &Manager{
		clients: make(map[string]interfaces.WebSocketClient),
	}

	go manager.cleanupInactiveClients()

	return manager
}

func (m *Manager) AddClient(client interfaces.WebSocketClient) error {
	m.clientsMu.Lock()
	defer m.clientsMu.Unlock()

	m.clients[client.GetID()] = client

	log.Info().
		Str("client_id", client.GetID()).
		Int("total_clients", len(m.clients)).
		Msg("WebSocket client added")

	return nil
}

func (m *Manager) RemoveClient(clientID string) error {
	m.clientsMu.Lock()
	defer m.clientsMu.Unlock()

	if client, exists := m.clients[clientID]; exists {
		client.Close()
		delete(m.clients, clientID)

		log.Info().
			Str("client_id", clientID).
			Int("total_clients", len(m.clients)).
			Msg("WebSocket client removed")
	}

	return nil
}

// Broadcast sends a payment status update to all connected clients.
// Clients whose connection has gone away are dropped on the next cleanup
// pass.
func (m *Manager) Broadcast(message *models.StatusUpdate) error {
	m.clientsMu.RLock()
	clients := make([]interfaces.WebSocketClient, 0, len(m.clients))
	for _, client := range m.clients {
		clients = append(clients, client)
	}
	m.clientsMu.RUnlock()

	for _, client := range clients {
		if err := client.Send(message); err != nil {
			log.Error().
				Err(err).
				Str("client_id", client.GetID()).
				Str("message_type", message.Type).
				Msg("Failed to send status update to WebSocket client")
		}
	}

	return nil
}

func (m *Manager) SendToClient(clientID string, message *models.StatusUpdate) error {
	m.clientsMu.RLock()
	client, exists := m.clients[clientID]
	m.clientsMu.RUnlock()

	if !exists {
		return ErrClientNotFound
	}

	return client.Send(message)
}

func (m *Manager) GetClientCount() int {
	m.clientsMu.RLock()
	defer m.clientsMu.RUnlock()

	return len(m.clients)
}

func (m *Manager) cleanupInactiveClients() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		m.clientsMu.Lock()
		removed := 0
		for clientID, client := range m.clients {
			if !client.IsActive() {
				client.Close()
				delete(m.clients, clientID)
				removed++
			}
		}
		if removed > 0 {
			log.Info().
				Int("removed_count", removed).
				Int("active_clients", len(m.clients)).
				Msg("Cleaned up inactive WebSocket clients")
		}
		m.clientsMu.Unlock()
	}
}
