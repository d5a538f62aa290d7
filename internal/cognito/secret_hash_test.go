package cognito_test

import (
	"testing"

	"github.com/jaekwang-park/todo-tracker/internal/cognito"
)

func TestSecretHash(t *testing.T) {
	tests := []struct {
		name     string
		username string
		want     string
	}{
		{"owner", "owner@example.com", "7YbHtB791Z7xkVD7AlOM4Ckk436eX9zGjTjbrKN8QVg="},
		{"empty username", "", "Y3BuIdoagiTf7v5bH3+LA1tIEe2M65DN0QxyD5K/vwQ="},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cognito.SecretHash(tt.username, "abc123clientid", "supersecret")
			if got != tt.want {
				t.Errorf("SecretHash() = %q, want %q", got, tt.want)
			}
		})
	}
}
