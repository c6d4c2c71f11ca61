// drivesend/internal/keys/provider.go

// Package keys resolves the symmetric encryption key from an ordered list of
// sources: an explicitly supplied key string, a set of environment variables
// kept for compatibility with earlier tool generations, the OS credential
// store, and finally a one-shot interactive prompt.
package keys

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/zalando/go-keyring"

	"drivesend/internal/core/ports"
	cryptoaes "drivesend/internal/pkg/crypto/aes"
)

// ErrKeyNotFound is returned when every source, including the prompt, came
// up empty.
var ErrKeyNotFound = errors.New("encryption key not found")

// envNames are the accepted environment variable names, in resolution order.
// The lowercase variant matches the very first tool generation.
var envNames = []string{
	"COMFYUI_ENCRYPTION_KEY",
	"comfyui_encryption_key",
	"DROPSEND_ENCRYPTION_KEY",
	"DRIVESEND_ENCRYPTION_KEY",
}

// keyringEntry is a service/account pair in the OS credential store.
type keyringEntry struct {
	Service string
	Account string
}

// keyringEntries are the accepted credential-store names, oldest first.
var keyringEntries = []keyringEntry{
	{Service: "ComfyUI_Encryption_Key", Account: "ComfyUI"},
	{Service: "DropSend_Encryption_Key", Account: "DropSend"},
	{Service: "DriveSend_Encryption_Key", Account: "DriveSend"},
}

// PromptFunc asks the operator for a key string. It is called at most once,
// only after all other sources are exhausted.
type PromptFunc func(ctx context.Context) (string, error)

// Provider tries its sources in order and returns the first key found.
type Provider struct {
	sources []ports.KeySource
	prompt  PromptFunc
}

// Option configures a Provider.
type Option func(*Provider)

// WithExplicitKey puts a directly supplied key string at the front of the
// resolution order. Empty strings are ignored.
func WithExplicitKey(key string) Option {
	return func(p *Provider) {
		if key != "" {
			p.sources = append(p.sources, explicitSource{key: key})
		}
	}
}

// WithPrompt installs the interactive fallback.
func WithPrompt(prompt PromptFunc) Option {
	return func(p *Provider) {
		p.prompt = prompt
	}
}

// NewProvider builds a Provider with the standard source order. Options are
// applied before the built-in env and credential-store sources so an explicit
// key always wins.
func NewProvider(opts ...Option) *Provider {
	p := &Provider{}
	for _, opt := range opts {
		opt(p)
	}
	p.sources = append(p.sources, envSource{names: envNames})
	p.sources = append(p.sources, keyringSource{entries: keyringEntries})
	return p
}

// Resolve walks the source list and returns the first key it finds, decoded
// to a 256-bit key. If no source yields a key and a prompt is installed, the
// operator is asked once; an empty entry is ErrKeyNotFound.
func (p *Provider) Resolve(ctx context.Context) ([]byte, error) {
	for _, src := range p.sources {
		key, err := src.Key(ctx)
		if err != nil {
			return nil, err
		}
		if key != nil {
			return key, nil
		}
	}

	if p.prompt != nil {
		entered, err := p.prompt(ctx)
		if err != nil {
			return nil, fmt.Errorf("key prompt failed: %w", err)
		}
		entered = strings.TrimSpace(entered)
		if entered == "" {
			return nil, ErrKeyNotFound
		}
		return DecodeKey(entered)
	}

	return nil, ErrKeyNotFound
}

// DecodeKey turns a key string into a 256-bit key. Base64 (URL-safe or
// standard) of exactly 32 bytes is used verbatim, matching the format
// Generate emits; any other non-empty string is derived through SHA-256 so
// operator passphrases still work.
func DecodeKey(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrKeyNotFound
	}

	for _, enc := range []*base64.Encoding{
		base64.URLEncoding, base64.RawURLEncoding,
		base64.StdEncoding, base64.RawStdEncoding,
	} {
		if raw, err := enc.DecodeString(s); err == nil && len(raw) == cryptoaes.KeySize {
			return raw, nil
		}
	}

	derived := sha256.Sum256([]byte(s))
	return derived[:], nil
}

// Generate returns a new random key in URL-safe base64, the format earlier
// tool generations stored in the credential store.
func Generate() (string, error) {
	raw, err := cryptoaes.NewGCMEncryptor().GenerateKey()
	if err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(raw), nil
}

type explicitSource struct {
	key string
}

func (s explicitSource) Key(ctx context.Context) ([]byte, error) {
	return DecodeKey(s.key)
}

type envSource struct {
	names []string
}

func (s envSource) Key(ctx context.Context) ([]byte, error) {
	for _, name := range s.names {
		if v, ok := os.LookupEnv(name); ok && strings.TrimSpace(v) != "" {
			return DecodeKey(v)
		}
	}
	return nil, nil
}

type keyringSource struct {
	entries []keyringEntry
}

// keyringGet is a test seam over keyring.Get.
var keyringGet = keyring.Get

func (s keyringSource) Key(ctx context.Context) ([]byte, error) {
	for _, e := range s.entries {
		v, err := keyringGet(e.Service, e.Account)
		if err != nil {
			// Missing entries and unsupported platforms both mean "this
			// source has nothing"; resolution falls through.
			continue
		}
		if strings.TrimSpace(v) != "" {
			return DecodeKey(v)
		}
	}
	return nil, nil
}
