package config

import "testing"

func TestCanonicalizeEnvKey_UsesExistingCamelCaseKeys(t *testing.T) {
	existing := map[string]any{
		"postgres": map[string]any{
			"sslMode": "disable",
			"dbName":  "gatekeeper",
		},
		"accessToken": map[string]any{
			"secret":    "",
			"expiresIn": "15m",
		},
		"refreshToken": map[string]any{
			"secret":    "",
			"expiresIn": "168h",
		},
	}

	tests := []struct {
		envKey string
		want   string
	}{
		{envKey: "POSTGRES_SSLMODE", want: "postgres.sslMode"},
		{envKey: "POSTGRES_DBNAME", want: "postgres.dbName"},
		{envKey: "ACCESS_TOKEN_SECRET", want: "accessToken.secret"},
		{envKey: "ACCESS_TOKEN_EXPIRES_IN", want: "accessToken.expiresIn"},
		{envKey: "REFRESH_TOKEN_SECRET", want: "refreshToken.secret"},
		{envKey: "REFRESH_TOKEN_EXPIRES_IN", want: "refreshToken.expiresIn"},
		{envKey: "NEW_FEATURE_FLAG", want: "new.feature.flag"},
	}

	for _, tt := range tests {
		t.Run(tt.envKey, func(t *testing.T) {
			if got := canonicalizeEnvKey(tt.envKey, existing); got != tt.want {
				t.Fatalf("canonicalizeEnvKey(%q) = %q, want %q", tt.envKey, got, tt.want)
			}
		})
	}
}
