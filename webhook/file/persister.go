package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/marcelsud/webhook-dispatch/webhook"
)

/* Persister keeps the state blob in a single JSON file
 * Writes go to a temp file in the same directory and are renamed over the target
 */
type Persister struct {
	path string
}

// NewPersister creates a file persister; the directory is created on first save
func NewPersister(path string) *Persister {
	return &Persister{path: path}
}

// Load reads the state file; a missing file is an empty state
func (p *Persister) Load(ctx context.Context) (webhook.State, error) {
	data, err := os.ReadFile(p.path)
	if errors.Is(err, fs.ErrNotExist) {
		return webhook.State{}, nil
	}
	if err != nil {
		return webhook.State{}, fmt.Errorf("reading state file: %w", err)
	}
	return webhook.DecodeState(data)
}

// Save atomically replaces the state file
func (p *Persister) Save(ctx context.Context, state webhook.State) error {
	data, err := state.Encode()
	if err != nil {
		return err
	}

	dir := filepath.Dir(p.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(p.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing state: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), p.path); err != nil {
		return fmt.Errorf("replacing state file: %w", err)
	}
	return nil
}
