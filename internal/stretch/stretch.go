package stretch

import (
	"errors"
	"fmt"
	"time"

	"aim-crypto/go-envelope/internal/keycodec"
	"aim-crypto/go-envelope/internal/primitives"
	"aim-crypto/go-envelope/pkg/models"
)

const (
	KeySize = 32
	// FastPathMin is the password length at which the memory-hard KDF is
	// skipped and the keyed hash alone is used.
	FastPathMin = 16

	PathFast     = "fast"
	PathScrypt   = models.StretchScrypt
	PathArgon2id = models.StretchArgon2id

	fixedSalt = "H5B4DLSXw5xwNYFdz1Wr6e"
)

var ErrInvalidParams = errors.New("invalid stretch params")

type Observer func(path string, d time.Duration)

type Stretcher struct {
	p       *primitives.Provider
	params  models.StretchParams
	salt    []byte
	observe Observer
}

func New(p *primitives.Provider, params models.StretchParams, observe Observer) (*Stretcher, error) {
	if p == nil {
		p = primitives.New(nil)
	}
	params = withDefaults(params)
	if err := Validate(params); err != nil {
		return nil, err
	}
	salt, err := keycodec.Decode(fixedSalt)
	if err != nil {
		return nil, fmt.Errorf("decode stretch salt: %w", err)
	}
	return &Stretcher{p: p, params: params, salt: salt, observe: observe}, nil
}

func (s *Stretcher) Params() models.StretchParams {
	return s.params
}

// Stretch derives a 32-byte key from password. The output depends only on
// the password and the configured algorithm parameters.
func (s *Stretcher) Stretch(password []byte) ([]byte, error) {
	started := time.Now()
	path, out, err := s.derive(password)
	if err != nil {
		return nil, err
	}
	if s.observe != nil {
		s.observe(path, time.Since(started))
	}
	return out, nil
}

func (s *Stretcher) derive(password []byte) (string, []byte, error) {
	if len(password) >= FastPathMin {
		out, err := s.p.GenericHash(KeySize, password, s.salt)
		if err != nil {
			return PathFast, nil, fmt.Errorf("stretch fast path: %w", err)
		}
		return PathFast, out, nil
	}
	if s.params.Algorithm == models.StretchScrypt {
		out, err := s.p.Scrypt(password, s.salt, s.params.ScryptN, s.params.ScryptR, s.params.ScryptP, KeySize)
		if err != nil {
			return PathScrypt, nil, fmt.Errorf("stretch scrypt: %w", err)
		}
		return PathScrypt, out, nil
	}
	out := s.p.Argon2id(password, s.salt, s.params.Argon2Time, s.params.Argon2MemoryKB, s.params.Argon2Threads, KeySize)
	return PathArgon2id, out, nil
}

func Validate(params models.StretchParams) error {
	switch params.Algorithm {
	case models.StretchScrypt:
		n := params.ScryptN
		if n <= 1 || n&(n-1) != 0 {
			return fmt.Errorf("%w: scryptN must be a power of two > 1, got %d", ErrInvalidParams, n)
		}
		if params.ScryptR <= 0 || params.ScryptP <= 0 {
			return fmt.Errorf("%w: scryptR and scryptP must be positive", ErrInvalidParams)
		}
	case models.StretchArgon2id:
		if params.Argon2Time == 0 || params.Argon2Threads == 0 {
			return fmt.Errorf("%w: argon2Time and argon2Threads must be positive", ErrInvalidParams)
		}
		if params.Argon2MemoryKB < 8*uint32(params.Argon2Threads) {
			return fmt.Errorf("%w: argon2MemoryKB too small", ErrInvalidParams)
		}
	default:
		return fmt.Errorf("%w: unknown algorithm %q", ErrInvalidParams, params.Algorithm)
	}
	return nil
}

func withDefaults(params models.StretchParams) models.StretchParams {
	def := models.DefaultStretchParams()
	if params.Algorithm == "" {
		params.Algorithm = def.Algorithm
	}
	if params.ScryptN == 0 {
		params.ScryptN = def.ScryptN
	}
	if params.ScryptR == 0 {
		params.ScryptR = def.ScryptR
	}
	if params.ScryptP == 0 {
		params.ScryptP = def.ScryptP
	}
	if params.Argon2Time == 0 {
		params.Argon2Time = def.Argon2Time
	}
	if params.Argon2MemoryKB == 0 {
		params.Argon2MemoryKB = def.Argon2MemoryKB
	}
	if params.Argon2Threads == 0 {
		params.Argon2Threads = def.Argon2Threads
	}
	return params
}
