package app

import (
	"testing"
	"time"
)

func TestTokenManager_GenerateAndParse(t *testing.T) {
	cfg := TokenConfig{
		SecretKey: "session-secret",
		Expiry:    1 * time.Hour,
		Issuer:    "test-issuer",
	}
	tm := NewTokenManager(cfg)

	sessionID := "f1c7b9d2-guest"

	// 1. 测试生成和解析
	token, err := tm.Generate(sessionID, SessionKindGuest, "127.0.0.1")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	parsed, err := tm.Parse(token)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if parsed.SID != sessionID {
		t.Errorf("Expected SID %q, got %q", sessionID, parsed.SID)
	}
	if parsed.Kind != SessionKindGuest {
		t.Errorf("Expected kind %q, got %q", SessionKindGuest, parsed.Kind)
	}

	// 验证 ExpiresAt (由于只存了秒级 Unix 戳，允许 1 秒内的误差)
	expectedExp := time.Now().Add(cfg.Expiry)
	if parsed.ExpiresAt.Unix() < expectedExp.Unix()-1 || parsed.ExpiresAt.Unix() > expectedExp.Unix()+1 {
		t.Errorf("Expected ExpiresAt around %v, got %v", expectedExp, parsed.ExpiresAt)
	}

	// 2. 测试错误的密钥
	wrongKeyCfg := cfg
	wrongKeyCfg.SecretKey = "wrong-secret"
	tmWrongKey := NewTokenManager(wrongKeyCfg)

	wrongToken, _ := tmWrongKey.Generate(sessionID, SessionKindGuest, "127.0.0.1")
	if _, err := tm.Parse(wrongToken); err == nil {
		t.Error("Expected error when parsing token with wrong secret key, but got nil")
	}

	// 3. 测试篡改后的 Token
	tamperedToken := token + "tampered"
	if _, err := tm.Parse(tamperedToken); err == nil {
		t.Error("Expected error when parsing tampered token, but got nil")
	}
}

func TestTokenManager_Validate(t *testing.T) {
	tm := NewTokenManager(TokenConfig{SecretKey: "k"})

	token, err := tm.Generate("sid-1", SessionKindUser, "")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if err := tm.Validate(token); err != nil {
		t.Errorf("Validate failed for fresh token: %v", err)
	}
	if err := tm.Validate("not-a-token"); err == nil {
		t.Error("Expected error for malformed token")
	}
}

func TestTokenManager_ExpiredToken(t *testing.T) {
	tm := NewTokenManager(TokenConfig{SecretKey: "k", Expiry: -time.Minute})

	token, err := tm.Generate("sid-2", SessionKindGuest, "")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if _, err := tm.Parse(token); err == nil {
		t.Error("Expected error for expired token, got nil")
	}
}
