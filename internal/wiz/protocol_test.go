package wiz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scheerer/wiz-lights/internal/lights"
)

func TestEncodeQuery(t *testing.T) {
	assert.Equal(t, `{"method":"getPilot","params":{}}`, string(EncodeQuery()))

	q := EncodeQuery()
	q[0] = 'x'
	assert.Equal(t, byte('{'), EncodeQuery()[0])
}

func TestEncodeCommand(t *testing.T) {
	cmd := lights.NewCommand(255, 10, 0, 200, 80)
	assert.Equal(t,
		`{"method":"setPilot","params":{"r":255,"g":10,"b":0,"transition":200,"dimming":80}}`,
		string(EncodeCommand(cmd)))

	unclamped := lights.Command{Color: lights.White, Transition: -4, Brightness: 400}
	assert.Equal(t,
		`{"method":"setPilot","params":{"r":255,"g":255,"b":255,"transition":0,"dimming":100}}`,
		string(EncodeCommand(unclamped)))
}

func TestDecodeResponse(t *testing.T) {
	t.Run("valid reply", func(t *testing.T) {
		p, ok := DecodeResponse([]byte(`{"method":"getPilot","env":"pro","result":{"mac":"a8bb50","moduleName":"ESP01"}}`))
		require.True(t, ok)
		assert.Equal(t, "ESP01", p.Name())
		assert.False(t, p.IsRaw())
	})

	t.Run("leading garbage is skipped", func(t *testing.T) {
		p, ok := DecodeResponse([]byte("\x00\x01junk{\"result\":{\"deviceName\":\"porch\"}}"))
		require.True(t, ok)
		assert.Equal(t, "porch", p.Name())
	})

	t.Run("truncated reply becomes raw text", func(t *testing.T) {
		p, ok := DecodeResponse([]byte(`{"method":"getPilot","result":{"mac"`))
		require.True(t, ok)
		assert.True(t, p.IsRaw())
		assert.Equal(t, `{"method":"getPilot","result":{"mac"`, p.Raw())
	})

	t.Run("non object reply becomes raw text", func(t *testing.T) {
		p, ok := DecodeResponse([]byte("hello"))
		require.True(t, ok)
		assert.Equal(t, "hello", p.Raw())
	})

	t.Run("invalid utf8 is dropped", func(t *testing.T) {
		p, ok := DecodeResponse([]byte("\xff\xfe{\"deviceName\":\"x\"}"))
		require.True(t, ok)
		assert.Equal(t, "x", p.Name())
	})

	t.Run("empty datagrams carry nothing", func(t *testing.T) {
		for _, in := range []string{"", "  ", "{}", "\xff"} {
			_, ok := DecodeResponse([]byte(in))
			assert.False(t, ok, "%q", in)
		}
	})
}
