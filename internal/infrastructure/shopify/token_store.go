package shopify

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"iamtoxico-bridge/internal/domain"
)

// FileTokenStore persists access tokens as a JSON map keyed by store domain.
// Writes replace the file atomically; concurrent processes are not coordinated.
type FileTokenStore struct {
	path string
	mu   sync.Mutex
}

// NewFileTokenStore creates a token store backed by path
func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{path: path}
}

// Save stores token under its shop domain, replacing any previous value
func (s *FileTokenStore) Save(token domain.AccessToken) error {
	if token.ShopDomain == "" {
		return fmt.Errorf("failed to save token: shop domain is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tokens, err := s.read()
	if err != nil {
		return err
	}
	tokens[NormalizeShopDomain(token.ShopDomain)] = token
	return s.write(tokens)
}

// Load returns the token for shop
func (s *FileTokenStore) Load(shop string) (domain.AccessToken, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tokens, err := s.read()
	if err != nil {
		return domain.AccessToken{}, false, err
	}
	shop = NormalizeShopDomain(shop)
	token, ok := tokens[shop]
	token.ShopDomain = shop
	return token, ok, nil
}

// First returns the token for the alphabetically first shop, used to
// restore a connection at startup
func (s *FileTokenStore) First() (domain.AccessToken, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tokens, err := s.read()
	if err != nil {
		return domain.AccessToken{}, false, err
	}
	if len(tokens) == 0 {
		return domain.AccessToken{}, false, nil
	}
	shops := make([]string, 0, len(tokens))
	for shop := range tokens {
		shops = append(shops, shop)
	}
	sort.Strings(shops)
	token := tokens[shops[0]]
	token.ShopDomain = shops[0]
	return token, true, nil
}

// Delete removes the token for shop
func (s *FileTokenStore) Delete(shop string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tokens, err := s.read()
	if err != nil {
		return err
	}
	shop = NormalizeShopDomain(shop)
	if _, ok := tokens[shop]; !ok {
		return nil
	}
	delete(tokens, shop)
	return s.write(tokens)
}

func (s *FileTokenStore) read() (map[string]domain.AccessToken, error) {
	tokens := make(map[string]domain.AccessToken)
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return tokens, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}
	if len(data) == 0 {
		return tokens, nil
	}
	if err := json.Unmarshal(data, &tokens); err != nil {
		return nil, fmt.Errorf("failed to decode token file: %w", err)
	}
	return tokens, nil
}

func (s *FileTokenStore) write(tokens map[string]domain.AccessToken) error {
	data, err := json.MarshalIndent(tokens, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode tokens: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".tokens-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp token file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write token file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set token file mode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close token file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace token file: %w", err)
	}
	return nil
}
