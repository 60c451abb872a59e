package cursor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/cursorlock/internal/config"
)

type stubPort struct {
	virtual    Point
	primary    Point
	virtualErr error
}

func (s *stubPort) VirtualScreenCenter() (Point, error) { return s.virtual, s.virtualErr }
func (s *stubPort) PrimaryScreenCenter() (Point, error) { return s.primary, nil }
func (s *stubPort) MoveTo(Point) error                  { return nil }
func (s *stubPort) ConfineTo(Point) error               { return nil }
func (s *stubPort) Release() error                      { return nil }
func (s *stubPort) Close() error                        { return nil }

func TestResolve(t *testing.T) {
	port := &stubPort{
		virtual: Point{X: 1920, Y: 600},
		primary: Point{X: 960, Y: 540},
	}

	tests := []struct {
		name string
		pos  config.PositionConfig
		want Point
	}{
		{
			name: "virtual center",
			pos:  config.PositionConfig{Mode: config.PositionVirtualCenter},
			want: Point{X: 1920, Y: 600},
		},
		{
			name: "primary center",
			pos:  config.PositionConfig{Mode: config.PositionPrimaryCenter},
			want: Point{X: 960, Y: 540},
		},
		{
			name: "custom point",
			pos:  config.PositionConfig{Mode: config.PositionCustom, CustomX: 42, CustomY: 17},
			want: Point{X: 42, Y: 17},
		},
		{
			name: "unknown mode falls back to virtual center",
			pos:  config.PositionConfig{Mode: "bogus"},
			want: Point{X: 1920, Y: 600},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.pos, port)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolvePropagatesPortError(t *testing.T) {
	port := &stubPort{virtualErr: errors.New("no screens")}

	_, err := Resolve(config.PositionConfig{Mode: config.PositionVirtualCenter}, port)
	require.Error(t, err)
}

func TestPointString(t *testing.T) {
	assert.Equal(t, "(960,540)", Point{X: 960, Y: 540}.String())
}
