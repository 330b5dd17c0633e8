package world

import (
	"sort"
	"sync"
)

// PlayerRecord is the server's copy of one connected player.
type PlayerRecord struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Snake Snake  `json:"snake"`
}

// Clone returns a deep copy.
func (p PlayerRecord) Clone() PlayerRecord {
	p.Snake = p.Snake.Clone()
	return p
}

type playerEntry struct {
	record PlayerRecord
	seq    uint64
}

// Store is the authoritative player table, keyed by connection identity.
type Store struct {
	mu      sync.RWMutex
	spawn   Position
	players map[string]*playerEntry
	nextSeq uint64
}

// NewStore creates an empty store whose snakes spawn at config.Spawn.
func NewStore(config *Config) *Store {
	config = config.WithDefaults()
	return &Store{
		spawn:   config.Spawn,
		players: make(map[string]*playerEntry),
	}
}

// Join creates the record for id with a length-1 snake at the spawn point.
// Joining again with a live id overwrites the record.
func (s *Store) Join(id, name string) PlayerRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextSeq++
	rec := PlayerRecord{ID: id, Name: name, Snake: NewSnake(s.spawn)}
	s.players[id] = &playerEntry{record: rec, seq: s.nextSeq}
	return rec.Clone()
}

// ReportMovement replaces the stored snake for id. Unknown ids are ignored and report false.
func (s *Store) ReportMovement(id string, snake Snake) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.players[id]
	if !ok {
		return false
	}
	e.record.Snake = snake.Clone()
	return true
}

// Leave removes the record for id and returns it.
func (s *Store) Leave(id string) (PlayerRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.players[id]
	if !ok {
		return PlayerRecord{}, false
	}
	delete(s.players, id)
	return e.record, true
}

// Get returns a copy of the record for id.
func (s *Store) Get(id string) (PlayerRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.players[id]
	if !ok {
		return PlayerRecord{}, false
	}
	return e.record.Clone(), true
}

// Snapshot returns copies of all records in join order.
func (s *Store) Snapshot() []PlayerRecord {
	s.mu.RLock()
	entries := make([]playerEntry, 0, len(s.players))
	for _, e := range s.players {
		entries = append(entries, playerEntry{record: e.record.Clone(), seq: e.seq})
	}
	s.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })

	out := make([]PlayerRecord, len(entries))
	for i, e := range entries {
		out[i] = e.record
	}
	return out
}

// Len returns the number of players.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.players)
}
