package datastore

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Config holds options for the Store.
type Config struct {
	FilePath         string
	AutoSaveInterval time.Duration
	BackupCount      int // number of rotated backup files to keep
	Logger           zerolog.Logger
}

// DefaultConfig returns a default configuration for the given file path.
func DefaultConfig(filePath string) *Config {
	return &Config{
		FilePath:         filePath,
		AutoSaveInterval: 10 * time.Second,
		BackupCount:      3,
		Logger:           zerolog.Nop(),
	}
}

// Store is an embedded JSON key-value store with atomic writes and
// load-on-start. All data lives in memory; SaveToFile flushes the whole
// map to disk in one atomic rename.
type Store struct {
	data         map[string]json.RawMessage
	file         string
	mu           sync.RWMutex
	config       *Config
	lastChecksum string
	closed       bool
	stop         chan struct{}
	wg           sync.WaitGroup
}

// New creates a Store with default configuration.
func New(filePath string) (*Store, error) {
	return NewWithConfig(DefaultConfig(filePath))
}

// NewWithConfig creates a Store. The backing file is created if missing
// and loaded if present.
func NewWithConfig(config *Config) (*Store, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if config.FilePath == "" {
		return nil, fmt.Errorf("file path cannot be empty")
	}

	if err := os.MkdirAll(filepath.Dir(config.FilePath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	s := &Store{
		data:   make(map[string]json.RawMessage),
		file:   config.FilePath,
		config: config,
		stop:   make(chan struct{}),
	}

	if _, err := os.Stat(config.FilePath); os.IsNotExist(err) {
		if err := s.writeFileAtomic([]byte("{}")); err != nil {
			return nil, fmt.Errorf("failed to create empty store file: %w", err)
		}
	} else if err == nil {
		if err := s.loadFromFile(); err != nil {
			return nil, fmt.Errorf("failed to load store file: %w", err)
		}
	} else {
		return nil, fmt.Errorf("failed to stat store file: %w", err)
	}

	if config.AutoSaveInterval > 0 {
		s.wg.Add(1)
		go s.autoSave()
	}

	return s, nil
}

// Put marshals value and stores it under key. The write hits disk on the
// next SaveToFile or autosave tick.
func (s *Store) Put(key string, value any) error {
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %q: %w", key, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("datastore is closed")
	}
	s.data[key] = b
	return nil
}

// Get unmarshals the value stored under key into out. Returns false when
// the key is absent.
func (s *Store) Get(key string, out any) (bool, error) {
	s.mu.RLock()
	raw, exists := s.data[key]
	s.mu.RUnlock()
	if !exists {
		return false, nil
	}
	if out == nil {
		return true, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return true, fmt.Errorf("unmarshal %q: %w", key, err)
	}
	return true, nil
}

// Delete removes a key.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
}

// Keys returns all keys with the given prefix, sorted. Empty prefix
// returns every key.
func (s *Store) Keys(prefix string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		if prefix == "" || strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// SaveToFile forces an immediate flush to disk.
func (s *Store) SaveToFile() error {
	s.mu.RLock()
	closed := s.closed
	s.mu.RUnlock()
	if closed {
		return fmt.Errorf("datastore is closed")
	}
	return s.saveToFile()
}

// Close stops background saving and performs a final flush.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	close(s.stop)
	s.wg.Wait()
	return s.saveToFile()
}

func (s *Store) saveToFile() error {
	s.mu.RLock()
	data, err := json.MarshalIndent(s.data, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}

	checksum := calculateChecksum(data)
	s.mu.Lock()
	unchanged := checksum == s.lastChecksum
	s.mu.Unlock()
	if unchanged {
		return nil
	}

	if s.config.BackupCount > 0 {
		if err := s.createBackup(); err != nil {
			s.config.Logger.Warn().Err(err).Msg("failed to create backup")
		}
	}

	if err := s.writeFileAtomic(data); err != nil {
		return err
	}

	s.mu.Lock()
	s.lastChecksum = checksum
	s.mu.Unlock()
	return nil
}

func (s *Store) loadFromFile() error {
	data, err := os.ReadFile(s.file)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	var temp map[string]json.RawMessage
	if err := json.Unmarshal(data, &temp); err != nil {
		return fmt.Errorf("invalid JSON format: %w", err)
	}
	s.mu.Lock()
	s.data = temp
	s.lastChecksum = calculateChecksum(data)
	s.mu.Unlock()
	return nil
}

// writeFileAtomic writes via temp file + fsync + rename so a crash never
// leaves a half-written store on disk.
func (s *Store) writeFileAtomic(data []byte) error {
	tmpFile := s.file + ".tmp"

	if err := os.WriteFile(tmpFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	f, err := os.OpenFile(tmpFile, os.O_RDWR, 0644)
	if err != nil {
		os.Remove(tmpFile)
		return fmt.Errorf("failed to open temp file for sync: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpFile)
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	f.Close()

	if err := os.Rename(tmpFile, s.file); err != nil {
		os.Remove(tmpFile)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

func (s *Store) createBackup() error {
	if _, err := os.Stat(s.file); os.IsNotExist(err) {
		return nil
	}
	backup := fmt.Sprintf("%s.backup.%s", s.file, time.Now().Format("20060102_150405"))
	data, err := os.ReadFile(s.file)
	if err != nil {
		return err
	}
	if err := os.WriteFile(backup, data, 0644); err != nil {
		return err
	}
	s.cleanupOldBackups()
	return nil
}

func (s *Store) cleanupOldBackups() {
	pattern := s.file + ".backup.*"
	matches, err := filepath.Glob(pattern)
	if err != nil || len(matches) <= s.config.BackupCount {
		return
	}
	sort.Strings(matches)
	for _, old := range matches[:len(matches)-s.config.BackupCount] {
		if err := os.Remove(old); err != nil {
			s.config.Logger.Warn().Err(err).Str("file", old).Msg("failed to remove old backup")
		}
	}
}

func (s *Store) autoSave() {
	defer s.wg.Done()
	ticker := time.NewTicker(s.config.AutoSaveInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			if err := s.saveToFile(); err != nil {
				s.config.Logger.Error().Err(err).Msg("autosave failed")
			}
		}
	}
}

func calculateChecksum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
