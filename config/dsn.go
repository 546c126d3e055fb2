package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
)

// baseMySQLConfig sets the options the store relies on: DATE/DATETIME come
// back as time.Time in UTC, and updates report matched rather than changed
// rows so a no-op update is not mistaken for a missing row.
func baseMySQLConfig() *mysql.Config {
	c := mysql.NewConfig()
	c.Net = "tcp"
	c.ParseTime = true
	c.Loc = time.UTC
	c.ClientFoundRows = true
	c.Params = map[string]string{"charset": "utf8mb4"}
	return c
}

func mysqlDSNFromURL(raw string) (string, string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", err
	}

	c := baseMySQLConfig()
	c.User = u.User.Username()
	c.Passwd, _ = u.User.Password()
	port := u.Port()
	if port == "" {
		port = "3306"
	}
	c.Addr = net.JoinHostPort(u.Hostname(), port)

	c.DBName = strings.TrimPrefix(u.Path, "/")
	if c.DBName == "" {
		return "", "", fmt.Errorf("mysql url missing database name")
	}
	for k, v := range u.Query() {
		if len(v) > 0 {
			c.Params[k] = v[0]
		}
	}
	return c.FormatDSN(), c.DBName, nil
}

func resolveMySQLDSN() (string, string, error) {
	raw := strings.TrimSpace(os.Getenv("MYSQL_URL"))
	if raw == "" {
		raw = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}

	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		c, err := mysql.ParseDSN(raw)
		if err != nil {
			return "", "", fmt.Errorf("parse DATABASE_URL: %w", err)
		}
		c.ParseTime = true
		c.Loc = time.UTC
		c.ClientFoundRows = true
		return c.FormatDSN(), c.DBName, nil
	}

	c := baseMySQLConfig()
	c.User = envOrDefault("DB_USER", "root")
	c.Passwd = envOrDefault("DB_PASS", "")
	c.Addr = net.JoinHostPort(envOrDefault("DB_HOST", "127.0.0.1"), envOrDefault("DB_PORT", "3306"))
	c.DBName = envOrDefault("DB_NAME", "hotel_db")
	return c.FormatDSN(), c.DBName, nil
}
