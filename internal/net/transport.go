package net

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// Peer is one connected remote-control WebSocket client.
type Peer struct {
	Conn *websocket.Conn
	mu   sync.Mutex // gorilla allows one concurrent writer
}

// WriteJSON sends v to the peer.
func (p *Peer) WriteJSON(v any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.Conn.WriteJSON(v)
}

// PeerManager tracks connected WebSocket clients.
type PeerManager struct {
	peers map[string]*Peer
	mu    sync.RWMutex
}

func NewPeerManager() *PeerManager {
	return &PeerManager{
		peers: make(map[string]*Peer),
	}
}

// Add registers a peer under its remote address.
func (pm *PeerManager) Add(peer *Peer) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	addr := peer.Conn.RemoteAddr().String()
	pm.peers[addr] = peer
	log.Printf("[remote] client connected from %s", addr)
}

// Remove forgets a peer.
func (pm *PeerManager) Remove(peer *Peer) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	addr := peer.Conn.RemoteAddr().String()
	delete(pm.peers, addr)
	log.Printf("[remote] client %s disconnected", addr)
}

// Len is the number of connected peers.
func (pm *PeerManager) Len() int {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return len(pm.peers)
}

// Broadcast sends v to every peer. Failed peers are left for their read
// loop to remove.
func (pm *PeerManager) Broadcast(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("[remote] encode broadcast: %v", err)
		return
	}
	pm.mu.RLock()
	peers := make([]*Peer, 0, len(pm.peers))
	for _, p := range pm.peers {
		peers = append(peers, p)
	}
	pm.mu.RUnlock()

	for _, p := range peers {
		p.mu.Lock()
		err := p.Conn.WriteMessage(websocket.TextMessage, data)
		p.mu.Unlock()
		if err != nil {
			log.Printf("[remote] send to %s: %v", p.Conn.RemoteAddr(), err)
		}
	}
}
