package security

import (
	"bytes"
	"context"
	"testing"

	"github.com/zalando/go-keyring"
)

func TestKeyringKeySource_CreatesThenReusesKey(t *testing.T) {
	keyring.MockInit()
	source := NewKeyringKeySource("appaccount-test", "primary")

	first, err := source.Load()
	if err != nil {
		t.Fatalf("first load: %v", err)
	}
	if len(first) != generatedKeySize {
		t.Fatalf("expected %d byte key, got %d", generatedKeySize, len(first))
	}

	second, err := source.Load()
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatalf("expected stored key to be reused")
	}

	if err := source.Forget(); err != nil {
		t.Fatalf("forget: %v", err)
	}
	if err := source.Forget(); err != nil {
		t.Fatalf("forget twice should be a no-op: %v", err)
	}
	third, err := source.Load()
	if err != nil {
		t.Fatalf("load after forget: %v", err)
	}
	if bytes.Equal(first, third) {
		t.Fatalf("expected a fresh key after forget")
	}
}

func TestKeyringKeySource_SecretProviderRoundTrip(t *testing.T) {
	keyring.MockInit()
	source := &KeyringKeySource{}

	issuer, err := source.SecretProvider(WithKeyID("keyring"))
	if err != nil {
		t.Fatalf("secret provider: %v", err)
	}
	sealed, err := issuer.Encrypt(context.Background(), []byte("credential"))
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}

	reader, err := source.SecretProvider(WithKeyID("keyring"))
	if err != nil {
		t.Fatalf("second secret provider: %v", err)
	}
	opened, err := reader.Decrypt(context.Background(), sealed)
	if err != nil {
		t.Fatalf("decrypt with reloaded key: %v", err)
	}
	if string(opened) != "credential" {
		t.Fatalf("unexpected plaintext %q", opened)
	}
}

func TestKeyringKeySource_RejectsCorruptStoredKey(t *testing.T) {
	keyring.MockInit()
	if err := keyring.Set("appaccount-corrupt", "k", "%%%not-base64"); err != nil {
		t.Fatalf("seed keyring: %v", err)
	}
	if _, err := NewKeyringKeySource("appaccount-corrupt", "k").Load(); err == nil {
		t.Fatalf("expected decode error for corrupt stored key")
	}
}
