/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package yamlstore

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/Dykam/gangwars/errors"
	"github.com/Dykam/gangwars/storagemodels"
)

// FileName is the name of the gang file inside the data directory.
const FileName = "gangs.yml"

// Store keeps the gang snapshot in a YAML file laid out as
//
//	red:
//	  members: [<uuid>, ...]
//	  powerLevel: 3.5
type Store struct {
	path   string
	logger *slog.Logger

	mu       sync.Mutex
	lastHash [sha256.Size]byte
}

// New opens the gang file in dir, creating the directory and an empty file
// when they do not exist.
func New(dir string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	path := filepath.Join(dir, FileName)
	f, err := os.OpenFile(path, os.O_RDONLY|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close %s: %w", path, err)
	}

	return &Store{path: path, logger: logger.With("store", "yaml", "path", path)}, nil
}

// Path returns the location of the gang file.
func (s *Store) Path() string {
	return s.path
}

// Load parses the gang file. Gangs are returned in file order. Entries that
// cannot be decoded are left out and reported in an errors.BatchError
// returned alongside the others.
func (s *Store) Load(ctx context.Context) ([]storagemodels.StoredGang, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}

	s.mu.Lock()
	s.lastHash = sha256.Sum256(data)
	s.mu.Unlock()

	gangs, err := decode(data)
	if batch, ok := errors.AsBatch(err); ok {
		s.logger.Warn("skipped undecodable gangs", "count", len(batch.Errors))
	} else if err != nil {
		return nil, err
	}
	s.logger.Debug("loaded gangs", "count", len(gangs))
	return gangs, err
}

// Save writes the snapshot to a temporary file and renames it over the gang
// file, so readers never observe a partial write.
func (s *Store) Save(ctx context.Context, gangs []storagemodels.StoredGang) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := encode(gangs)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "."+FileName+".*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", s.path, err)
	}

	s.lastHash = sha256.Sum256(data)
	s.logger.Debug("saved gangs", "count", len(gangs))
	return nil
}

// Close is a no-op; the file is not held open between calls.
func (s *Store) Close() error {
	return nil
}

// changedExternally reports whether the file differs from what this store
// last read or wrote.
func (s *Store) changedExternally() bool {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return sha256.Sum256(data) != s.lastHash
}

func decode(data []byte) ([]storagemodels.StoredGang, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.NewValidationError(FileName, err.Error())
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}

	root := doc.Content[0]
	if root.Kind == yaml.ScalarNode && root.Tag == "!!null" {
		return nil, nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, errors.NewValidationError(FileName, "top level must be a mapping of gang names")
	}

	gangs := make([]storagemodels.StoredGang, 0, len(root.Content)/2)
	var rejected []error
	for i := 0; i+1 < len(root.Content); i += 2 {
		name := root.Content[i].Value
		var g storagemodels.StoredGang
		if err := root.Content[i+1].Decode(&g); err != nil {
			rejected = append(rejected, errors.NewValidationError(name, err.Error()))
			continue
		}
		g.Name = name
		gangs = append(gangs, g)
	}
	if len(rejected) > 0 {
		return gangs, &errors.BatchError{Errors: rejected}
	}
	return gangs, nil
}

func encode(gangs []storagemodels.StoredGang) ([]byte, error) {
	if len(gangs) == 0 {
		return []byte("{}\n"), nil
	}

	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, g := range gangs {
		var value yaml.Node
		if err := value.Encode(g); err != nil {
			return nil, fmt.Errorf("failed to encode gang %s: %w", g.Name, err)
		}
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: g.Name},
			&value,
		)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", FileName, err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
