package config

import (
	"os"
	"strings"
)

const (
	KeyAPIKey       = "AIRTABLE_API_KEY"
	KeyBaseID       = "AIRTABLE_BASE_ID"
	KeyUsersTable   = "AIRTABLE_USERS"
	KeyGruposTable  = "AIRTABLE_GRUPOS"
	KeySessoesTable = "AIRTABLE_SESSOES"

	DefaultUsersTable   = "Users"
	DefaultGruposTable  = "Grupos"
	DefaultSessoesTable = "Sessoes"
)

// Directory holds the configuration the remote directory client needs. The
// three table names fall back to their defaults only when the variable is
// entirely unset; a variable that is set but blank counts as missing, so a
// deliberate override can never silently collapse to a default.
type Directory struct {
	APIKey       string
	BaseID       string
	UsersTable   string
	GruposTable  string
	SessoesTable string
}

// Load reads the directory configuration from the environment. It never
// fails; call Missing to learn whether the result is usable.
func Load() Directory {
	return Directory{
		APIKey:       os.Getenv(KeyAPIKey),
		BaseID:       os.Getenv(KeyBaseID),
		UsersTable:   lookupWithDefault(KeyUsersTable, DefaultUsersTable),
		GruposTable:  lookupWithDefault(KeyGruposTable, DefaultGruposTable),
		SessoesTable: lookupWithDefault(KeySessoesTable, DefaultSessoesTable),
	}
}

// Missing returns the names of required keys whose resolved value is empty
// or whitespace, in a fixed report order.
func (directory Directory) Missing() []string {
	missing := make([]string, 0, 5)
	for _, entry := range []struct {
		key   string
		value string
	}{
		{KeyAPIKey, directory.APIKey},
		{KeyBaseID, directory.BaseID},
		{KeyUsersTable, directory.UsersTable},
		{KeyGruposTable, directory.GruposTable},
		{KeySessoesTable, directory.SessoesTable},
	} {
		if strings.TrimSpace(entry.value) == "" {
			missing = append(missing, entry.key)
		}
	}
	return missing
}

// Tables returns the probe targets in the fixed health-check order.
func (directory Directory) Tables() []string {
	return []string{directory.UsersTable, directory.GruposTable, directory.SessoesTable}
}

func lookupWithDefault(key string, fallback string) string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	return value
}
