package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{"separate value", []string{"-c", "w.json", "-a", ":1"}, []string{"-c"}, []string{"-c", "w.json"}},
		{"equals form", []string{"--config=alt.yaml", "-a", ":1"}, []string{"--config"}, []string{"--config=alt.yaml"}},
		{"unknown ignored", []string{"-x", "1", "list"}, []string{"-c"}, []string{}},
		{"flag at end", []string{"-c"}, []string{"-c"}, []string{"-c"}},
		{"next token is a flag", []string{"-c", "-notvalue"}, []string{"-c"}, []string{"-c"}},
		{"repeated kept in order", []string{"-c", "1", "-c", "2"}, []string{"-c"}, []string{"-c", "1", "-c", "2"}},
		{"empty", []string{}, []string{"-c"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowed))
		})
	}
}

func TestConfigFileFlag(t *testing.T) {
	assert.Equal(t, "/p/short.json", ConfigFileFlag([]string{"-c", "/p/short.json"}))
	assert.Equal(t, "/p/long.yaml", ConfigFileFlag([]string{"list", "-config", "/p/long.yaml"}))
	assert.Equal(t, "/p/eq.json", ConfigFileFlag([]string{"-config=/p/eq.json"}))
	assert.Equal(t, "/p/2.json", ConfigFileFlag([]string{"-c", "/p/1.json", "-config", "/p/2.json"}))
	assert.Empty(t, ConfigFileFlag([]string{"-x", "1"}))
}

func TestStripArgs(t *testing.T) {
	args := []string{"-c", "cfg.json", "-w", "w.db", "-config=x.json", "-k", "key"}
	assert.Equal(t, []string{"-w", "w.db", "-k", "key"}, StripArgs(args, []string{"-c", "-config"}))
	assert.Equal(t, []string{}, StripArgs([]string{"-c"}, []string{"-c"}))
	assert.Equal(t, []string{"a", "b"}, StripArgs([]string{"a", "b"}, nil))
}
