package mysql

import (
	"testing"

	"github.com/YelzhanWeb/storefront/internal/config"

	driver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSN(t *testing.T) {
	dsn := DSN(config.MySQLConfig{
		Host:     "db.local",
		Port:     3307,
		User:     "shop",
		Password: "secret",
		Database: "storefront",
	})

	parsed, err := driver.ParseDSN(dsn)
	require.NoError(t, err)

	assert.Equal(t, "shop", parsed.User)
	assert.Equal(t, "secret", parsed.Passwd)
	assert.Equal(t, "tcp", parsed.Net)
	assert.Equal(t, "db.local:3307", parsed.Addr)
	assert.Equal(t, "storefront", parsed.DBName)
	assert.True(t, parsed.ParseTime)
}
