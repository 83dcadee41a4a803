package server

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_ParseDBConnString(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expect    Database
		expectErr bool
	}{
		{
			name:   "inmem",
			input:  "inmem",
			expect: Database{Type: DatabaseInMemory},
		},
		{
			name:   "sqlite with data dir",
			input:  "sqlite:/var/lib/gumshoe",
			expect: Database{Type: DatabaseSQLite, DataDir: "/var/lib/gumshoe"},
		},
		{
			name:   "surrounding whitespace is trimmed",
			input:  " sqlite : /data ",
			expect: Database{Type: DatabaseSQLite, DataDir: "/data"},
		},
		{
			name:      "sqlite without data dir",
			input:     "sqlite",
			expectErr: true,
		},
		{
			name:      "inmem does not take params",
			input:     "inmem:/data",
			expectErr: true,
		},
		{
			name:      "none is rejected",
			input:     "none",
			expectErr: true,
		},
		{
			name:      "unknown engine",
			input:     "postgres:somewhere",
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual, err := ParseDBConnString(tc.input)

			if tc.expectErr {
				assert.Error(err)
				return
			}
			assert.NoError(err)
			assert.Equal(tc.expect, actual)
		})
	}
}

func Test_Config_FillDefaults(t *testing.T) {
	assert := assert.New(t)

	cfg := Config{}.FillDefaults()

	assert.NotEmpty(cfg.TokenSecret)
	assert.Equal(DatabaseInMemory, cfg.DB.Type)
	assert.Equal("world.gwf", cfg.WorldFile)
	assert.Equal(1000, cfg.UnauthDelayMillis)

	// set values are left alone
	custom := Config{WorldFile: "manor.gwf", UnauthDelayMillis: -1}.FillDefaults()
	assert.Equal("manor.gwf", custom.WorldFile)
	assert.Equal(-1, custom.UnauthDelayMillis)
}

func Test_Config_Validate(t *testing.T) {
	assert := assert.New(t)

	assert.NoError(Config{}.FillDefaults().Validate())

	short := Config{}.FillDefaults()
	short.TokenSecret = []byte("too short")
	assert.ErrorContains(short.Validate(), "token secret")

	noDir := Config{}.FillDefaults()
	noDir.DB = Database{Type: DatabaseSQLite}
	assert.ErrorContains(noDir.Validate(), "db")

	noWorld := Config{}.FillDefaults()
	noWorld.WorldFile = ""
	assert.ErrorContains(noWorld.Validate(), "world file")
}

func Test_Config_UnauthDelay(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(250*time.Millisecond, Config{UnauthDelayMillis: 250}.UnauthDelay())
	assert.Equal(time.Duration(0), Config{UnauthDelayMillis: -1}.UnauthDelay())
	assert.Equal(time.Duration(0), Config{}.UnauthDelay())
}

func Test_LoadConfigFile(t *testing.T) {
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "gumshoed.toml")
	content := `token_secret = "a secret of sufficient length!!!"
db = "sqlite:/data/gumshoe"
world = "manor.gwf"
unauth_delay_millis = 50
`
	assert.NoError(os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfigFile(path)

	assert.NoError(err)
	assert.Equal([]byte("a secret of sufficient length!!!"), cfg.TokenSecret)
	assert.Equal(DatabaseSQLite, cfg.DB.Type)
	assert.Equal("/data/gumshoe", cfg.DB.DataDir)
	assert.Equal("manor.gwf", cfg.WorldFile)
	assert.Equal(50, cfg.UnauthDelayMillis)

	_, err = LoadConfigFile(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(err)

	badPath := filepath.Join(t.TempDir(), "bad.toml")
	assert.NoError(os.WriteFile(badPath, []byte(`db = "postgres:x"`), 0644))
	_, err = LoadConfigFile(badPath)
	assert.Error(err)
}
