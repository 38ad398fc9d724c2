package env

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name    string        `env:"APP_NAME,required"`
	Port    int           `env:"APP_PORT"`
	Debug   bool          `env:"APP_DEBUG"`
	Timeout time.Duration `env:"APP_TIMEOUT"`
	Empty   string        `env:"APP_EMPTY"`
	Note    string        `env:"APP_NOTE"`
	Nested  nested
	ignored string `env:"IGNORED"`
}

type nested struct {
	Token string `env:"NESTED_TOKEN"`
}

func TestMarshalEnv(t *testing.T) {
	out, err := MarshalEnv(&sample{
		Name:    "mindful",
		Port:    8080,
		Debug:   true,
		Timeout: 3 * time.Second,
		Note:    "be kind",
		Nested:  nested{Token: "abc"},
		ignored: "x",
	})
	require.NoError(t, err)

	assert.Equal(t, "APP_NAME=mindful\nAPP_PORT=8080\nAPP_DEBUG=true\nAPP_TIMEOUT=3s\nAPP_NOTE=\"be kind\"\nNESTED_TOKEN=abc\n", out)
}

func TestMarshalEnvMultiple(t *testing.T) {
	out, err := MarshalEnv(&nested{Token: "a"}, &sample{Name: "b"})
	require.NoError(t, err)
	assert.Equal(t, "NESTED_TOKEN=a\nAPP_NAME=b\n", out)
}

func TestMarshalEnvRejectsNonPointer(t *testing.T) {
	_, err := MarshalEnv(sample{})
	assert.Error(t, err)
}
