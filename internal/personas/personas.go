package personas

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
)

// Persona is read-only reference data describing one reader segment.
// The set is loaded once at startup and never mutated afterwards.
type Persona struct {
	ID          string   `json:"id"`
	Label       string   `json:"label"`
	Icon        string   `json:"icon"`
	Description string   `json:"description"`
	Rooms       []string `json:"rooms"`
	Resources   []string `json:"resources"`
	Stats       Stats    `json:"stats"`
}

type Stats struct {
	Posts     int `json:"posts"`
	Guides    int `json:"guides"`
	Followers int `json:"followers"`
}

type Manager struct {
	personas   []Persona
	personByID map[string]Persona
}

func NewManager(personasJSONReader io.Reader) (*Manager, error) {
	m := &Manager{
		personByID: make(map[string]Persona),
	}

	log.Println("reading personas JSON ...")

	if err := json.NewDecoder(personasJSONReader).Decode(&m.personas); err != nil {
		return nil, fmt.Errorf("decode personas json: %w", err)
	}

	for _, p := range m.personas {
		if p.ID == "" {
			return nil, fmt.Errorf("persona [%s] has empty id", p.Label)
		}
		if _, ok := m.personByID[p.ID]; ok {
			return nil, fmt.Errorf("duplicate persona id: %s", p.ID)
		}
		m.personByID[p.ID] = p
	}

	log.Printf("personas JSON read, %d personas", len(m.personas))

	return m, nil
}

func NewManagerFromFile(path string) (*Manager, error) {
	personasFile, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open personas file: %w", err)
	}
	defer func() {
		if err := personasFile.Close(); err != nil {
			log.Errorf("close personas file: %s", err)
		}
	}()
	return NewManager(personasFile)
}

// All returns personas in the order they appear in the source file.
func (m *Manager) All() []Persona {
	return m.personas
}

func (m *Manager) Get(id string) (Persona, bool) {
	p, ok := m.personByID[id]
	return p, ok
}
