package config

import (
	"os"
	"testing"

	"agentpoker-server/internal/util"

	"github.com/stretchr/testify/assert"
)

func TestInstance(t *testing.T) {
	clear1 := util.SetEnv("APS_CONFIG_FILE", "testdata/config.yaml")
	defer clear1()
	clear2 := util.SetEnv("APS_JWT_PRIVATE_KEY", "private2.key")
	defer clear2()

	config = Config{}

	a := assert.New(t)
	cfg := Instance()
	a.Equal(":6000", cfg.Addr)
	a.Equal("public.pem", cfg.JWT.PublicKey)
	a.Equal("private2.key", cfg.JWT.PrivateKey)
	a.Equal(9, cfg.Table.Seats)
	a.Len(cfg.Table.Stakes, 2)
	a.Equal(50, cfg.Table.Stakes[1].BigBlind)

	// ensure that it's only loaded once
	_ = os.Setenv("APS_JWT_PRIVATE_KEY", "private3.key")
	// ensure we aren't using a pointer
	cfg.JWT.PrivateKey = "bad"
	cfg = Instance()
	a.Equal("private2.key", cfg.JWT.PrivateKey)
}

func TestDefaults(t *testing.T) {
	clear := util.SetEnv("APS_CONFIG_FILE", "testdata/does-not-exist.yaml")
	defer clear()

	a := assert.New(t)
	a.NoError(Load())
	cfg := Instance()
	a.Equal(":5000", cfg.Addr)
	a.Equal(6, cfg.Table.Seats)
	a.Equal(0.05, cfg.Table.RakeRate)
	a.Equal(30, cfg.Table.TurnTimeout)
}
