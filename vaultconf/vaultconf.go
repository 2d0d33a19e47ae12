// Copyright (c) 2018, Eugene Ponizovsky, <ponizovsky@gmail.com>. All rights
// reserved. Use of this source code is governed by a MIT License that can
// be found in the LICENSE file.

/*
Package vaultconf decrypts secret values in configuration trees. Secret values
are strings with "nacl:" prefix followed by base64 encoded salt, nonce and
NaCl secretbox. The secretbox key is derived from the password with scrypt.

	db:
	  password: nacl:4u8Lb0...

The password is taken from VAULT_NACL environment variable, from the file
named by VAULT_NACL_FILE or from vault-nacl.txt file in the configuration
directory.
*/
package vaultconf

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/crypto/nacl/secretbox"
	"golang.org/x/crypto/scrypt"
)

const (
	errPref = "vaultconf"

	// Prefix marks encrypted string values.
	Prefix = "nacl:"

	// DefaultFile is the password file looked up in configuration directory.
	DefaultFile = "vault-nacl.txt"

	saltSize  = 16
	nonceSize = 24
	keySize   = 32

	scryptN = 1 << 15
	scryptR = 8
	scryptP = 1
)

var (
	// ErrDecrypt is returned if encrypted value can't be decrypted.
	ErrDecrypt = errors.New(errPref + ": can't decrypt value")

	// ErrEmptyPassword is returned if password file is empty.
	ErrEmptyPassword = errors.New(errPref + ": empty password")
)

// Vault encrypts and decrypts configuration values.
type Vault struct {
	password []byte

	mu   sync.Mutex
	keys map[string]*[keySize]byte
}

// New method creates new vault for the password.
func New(password string) *Vault {
	return &Vault{
		password: []byte(password),
		keys:     make(map[string]*[keySize]byte),
	}
}

// ReadPasswordFile method reads password from the file. Surrounding white space
// is trimmed.
func ReadPasswordFile(filename string) (string, error) {
	data, err := os.ReadFile(filename)

	if err != nil {
		return "", fmt.Errorf("%s: can't read password file: %w", errPref, err)
	}

	password := strings.TrimSpace(string(data))

	if password == "" {
		return "", fmt.Errorf("%w in %s", ErrEmptyPassword, filename)
	}

	return password, nil
}

// FromEnvironment method creates vault from VAULT_NACL and VAULT_NACL_FILE
// values. If both are empty, DefaultFile in the directory is tried. If no
// password found, nil is returned.
func FromEnvironment(password, passwordFile, dirname string) (*Vault, error) {
	if password != "" {
		return New(password), nil
	}

	if passwordFile != "" {
		password, err := ReadPasswordFile(passwordFile)

		if err != nil {
			return nil, err
		}

		return New(password), nil
	}

	if dirname == "" {
		return nil, nil
	}

	password, err := ReadPasswordFile(filepath.Join(dirname, DefaultFile))

	if err != nil {
		return nil, nil
	}

	return New(password), nil
}

// EncryptString method encrypts the value. The result carries Prefix.
func (v *Vault) EncryptString(value string) (string, error) {
	var (
		salt  [saltSize]byte
		nonce [nonceSize]byte
	)

	if _, err := rand.Read(salt[:]); err != nil {
		return "", fmt.Errorf("%s: %w", errPref, err)
	}

	if _, err := rand.Read(nonce[:]); err != nil {
		return "", fmt.Errorf("%s: %w", errPref, err)
	}

	key, err := v.key(salt[:])

	if err != nil {
		return "", err
	}

	out := make([]byte, 0, saltSize+nonceSize+len(value)+secretbox.Overhead)
	out = append(out, salt[:]...)
	out = append(out, nonce[:]...)
	out = secretbox.Seal(out, []byte(value), &nonce, key)

	return Prefix + base64.StdEncoding.EncodeToString(out), nil
}

// DecryptString method decrypts the value. Values without Prefix are returned
// as is.
func (v *Vault) DecryptString(value string) (string, error) {
	encoded, ok := strings.CutPrefix(value, Prefix)

	if !ok {
		return value, nil
	}

	data, err := base64.StdEncoding.DecodeString(encoded)

	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDecrypt, err)
	}

	if len(data) < saltSize+nonceSize+secretbox.Overhead {
		return "", fmt.Errorf("%w: value too short", ErrDecrypt)
	}

	var nonce [nonceSize]byte
	copy(nonce[:], data[saltSize:saltSize+nonceSize])

	key, err := v.key(data[:saltSize])

	if err != nil {
		return "", err
	}

	plain, ok := secretbox.Open(nil, data[saltSize+nonceSize:], &nonce, key)

	if !ok {
		return "", fmt.Errorf("%w: wrong password or corrupted value", ErrDecrypt)
	}

	return string(plain), nil
}

// Decrypt method returns copy of the configuration tree with all encrypted
// values decrypted. The source tree is not modified.
func (v *Vault) Decrypt(tree map[string]any) (map[string]any, error) {
	if tree == nil {
		return nil, nil
	}

	result, err := v.decrypt(tree, "")

	if err != nil {
		return nil, err
	}

	return result.(map[string]any), nil
}

func (v *Vault) decrypt(value any, path string) (any, error) {
	switch value := value.(type) {
	case string:
		plain, err := v.DecryptString(value)

		if err != nil {
			return nil, fmt.Errorf("%w (at %s)", err, path)
		}

		return plain, nil
	case map[string]any:
		m := make(map[string]any, len(value))

		for key, child := range value {
			childPath := key

			if path != "" {
				childPath = path + "." + key
			}

			result, err := v.decrypt(child, childPath)

			if err != nil {
				return nil, err
			}

			m[key] = result
		}

		return m, nil
	case []any:
		s := make([]any, len(value))

		for i, child := range value {
			result, err := v.decrypt(child, fmt.Sprintf("%s[%d]", path, i))

			if err != nil {
				return nil, err
			}

			s[i] = result
		}

		return s, nil
	}

	return value, nil
}

func (v *Vault) key(salt []byte) (*[keySize]byte, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if key, ok := v.keys[string(salt)]; ok {
		return key, nil
	}

	derived, err := scrypt.Key(v.password, salt, scryptN, scryptR, scryptP, keySize)

	if err != nil {
		return nil, fmt.Errorf("%s: %w", errPref, err)
	}

	key := new([keySize]byte)
	copy(key[:], derived)
	v.keys[string(salt)] = key

	return key, nil
}
