package api

import "time"

type ServerConfig struct {
	S3      S3Config
	DB      DBConfig
	Redis   RedisConfig
	Session SessionConfig
}

type S3Config struct {
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string
	Bucket          string
	PublicBaseURL   string
}

type DBConfig struct {
	User     string
	Password string
	Host     string
	Port     int
	Database string
	Schema   string
}

// RedisConfig selects the session store backend. An empty Addr keeps
// sessions in process memory instead.
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

type SessionConfig struct {
	KeyForCookie string
	CookieMaxAge time.Duration
	CookieSecure bool
}
