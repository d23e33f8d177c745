package configuration

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"creator-studio/infrastructure/logger"

	"github.com/spf13/viper"
)

type Config struct {
	App        App        `json:"app"`
	Database   Database   `json:"database"`
	Redis      Redis      `json:"redis"`
	Mongo      Mongo      `json:"mongo"`
	OAuth      OAuth      `json:"oauth"`
	Cloudinary Cloudinary `json:"cloudinary"`
	Pubsub     Pubsub     `json:"pubsub"`
	ServiceBus ServiceBus `json:"serviceBus"`
	Logger     Logger     `json:"logger"`
}

type App struct {
	Port        int    `json:"port"`
	BaseURL     string `json:"baseURL"` // public URL used to build redirect URIs
	SecretKey   string `json:"secretKey"`
	// EncryptionKey protects stored platform tokens. When empty, App.SecretKey
	// is used; when both are empty token persistence is refused.
	EncryptionKey string `json:"encryptionKey"`
	UploadDir     string `json:"uploadDir"`
	TLSEnabled    bool   `json:"tlsEnabled"`
	TLSCertFile   string `json:"tlsCertFile"`
	TLSKeyFile    string `json:"tlsKeyFile"`
}

type Database struct {
	Psql  Db `json:"psql"`
	Mssql Db `json:"mssql"`
	MySql Db `json:"mysql"`
}

type Db struct {
	Name     string `json:"name"`
	Host     string `json:"host"`
	Port     string `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
}

type Redis struct {
	Host     string `json:"host"`
	Port     string `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type Mongo struct {
	Host     string `json:"host"`
	Port     string `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// OAuth holds per-provider client credentials. Google and Facebook drive
// login; Meta drives the Instagram connect flow (usually the same app as
// Facebook, kept separate so they can diverge).
type OAuth struct {
	Google   OAuthClient `json:"google"`
	Facebook OAuthClient `json:"facebook"`
	Meta     OAuthClient `json:"meta"`
}

type OAuthClient struct {
	ClientID     string `json:"clientId"`
	ClientSecret string `json:"clientSecret"`
}

type Cloudinary struct {
	CloudName string `json:"cloudName"`
	APIKey    string `json:"apiKey"`
	APISecret string `json:"apiSecret"`
	Folder    string `json:"folder"`
}

type Pubsub struct {
	ProjectID string `json:"projectID"`
	Topic     string `json:"topic"`
}

type ServiceBus struct {
	Namespace string `json:"namespace"`
	Queue     string `json:"queue"`
}

type Logger struct {
	Format string `json:"format"`
}

var C Config

func init() {
	LoadConfig()
	initDatabase(&C)
	initApp(&C)
	initOAuth(&C)
}

func LoadConfig() {
	name := getConfig()
	viper.SetConfigName(name)
	viper.SetConfigType("json")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../")
	viper.AddConfigPath("../../")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logger.GetLogger().Warn("Config file not found")
		} else {
			logger.GetLogger().WithField("error", err).Error("Error reading config file")
		}
	}

	if err := viper.Unmarshal(&C); err != nil {
		logger.GetLogger().WithField("error", err).Error("Viper unable to decode into struct")
	}
	logger.GetLogger().WithField("config", name).Info("Config set up successfully")
}

func getConfig() string {
	name := "config"
	env := os.Getenv("ENV")
	if env != "" {
		name = fmt.Sprintf("%s-%s", name, env)
	}
	return name
}

func initDatabase(C *Config) {
	if C.Database.Psql.Name == "" {
		C.Database.Psql.Name = os.Getenv("DB_NAME")
	}
	if C.Database.Psql.Host == "" {
		C.Database.Psql.Host = os.Getenv("DB_HOST")
	}
	if C.Database.Psql.User == "" {
		C.Database.Psql.User = os.Getenv("DB_USER")
	}
	if C.Database.Psql.Password == "" {
		C.Database.Psql.Password = os.Getenv("DB_PASSWORD")
	}
	if C.Database.Psql.Port == "" {
		C.Database.Psql.Port = os.Getenv("DB_PORT")
	}
	if C.Database.Psql.Port == "" {
		C.Database.Psql.Port = "5432"
	}

	// MSSQL via environment (Azure SQL in production)
	if v := os.Getenv("MSSQL_DB_NAME"); v != "" && C.Database.Mssql.Name == "" {
		C.Database.Mssql.Name = v
	}
	if v := os.Getenv("MSSQL_HOST"); v != "" && C.Database.Mssql.Host == "" {
		C.Database.Mssql.Host = v
	}
	if v := os.Getenv("MSSQL_USER"); v != "" && C.Database.Mssql.User == "" {
		C.Database.Mssql.User = v
	}
	if v := os.Getenv("MSSQL_PASSWORD"); v != "" && C.Database.Mssql.Password == "" {
		C.Database.Mssql.Password = v
	}
	if C.Database.Mssql.Port == "" {
		C.Database.Mssql.Port = "1433"
	}

	if v := os.Getenv("MYSQL_DB_NAME"); v != "" && C.Database.MySql.Name == "" {
		C.Database.MySql.Name = v
	}
	if v := os.Getenv("MYSQL_HOST"); v != "" && C.Database.MySql.Host == "" {
		C.Database.MySql.Host = v
	}
	if C.Database.MySql.Port == "" {
		C.Database.MySql.Port = "3306"
	}

	if C.Mongo.Host == "" {
		C.Mongo.Host = os.Getenv("MONGO_HOST")
	}
	if C.Mongo.Port == "" {
		C.Mongo.Port = os.Getenv("MONGO_PORT")
	}
	if C.Redis.Host == "" {
		C.Redis.Host = os.Getenv("REDIS_HOST")
	}
	if C.Redis.Port == "" {
		C.Redis.Port = os.Getenv("REDIS_PORT")
	}
}

func initApp(C *Config) {
	// SECRET_KEY from environment wins over the config file.
	if v := os.Getenv("SECRET_KEY"); v != "" {
		C.App.SecretKey = v
	}
	if v := os.Getenv("ENCRYPTION_KEY"); v != "" {
		C.App.EncryptionKey = v
	}
	if C.App.EncryptionKey == "" {
		C.App.EncryptionKey = C.App.SecretKey
	}
	// Port resolution order: APP_PORT -> PORT -> config -> default 3001
	if v := os.Getenv("APP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	} else if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	}
	if C.App.Port == 0 {
		C.App.Port = 3001
	}
	if v := os.Getenv("APP_URL"); v != "" {
		C.App.BaseURL = v
	}
	if C.App.BaseURL == "" {
		C.App.BaseURL = fmt.Sprintf("http://localhost:%d", C.App.Port)
	}
	C.App.BaseURL = strings.TrimRight(C.App.BaseURL, "/")
	if C.App.UploadDir == "" {
		C.App.UploadDir = "uploads"
	}
	if v := os.Getenv("TLS_ENABLED"); v != "" {
		switch v {
		case "1", "true", "TRUE", "True":
			C.App.TLSEnabled = true
		case "0", "false", "FALSE", "False":
			C.App.TLSEnabled = false
		}
	}
	if C.App.TLSCertFile == "" {
		C.App.TLSCertFile = os.Getenv("TLS_CERT_FILE")
	}
	if C.App.TLSKeyFile == "" {
		C.App.TLSKeyFile = os.Getenv("TLS_KEY_FILE")
	}
	if C.App.SecretKey == "" {
		logger.GetLogger().Warn("App.SecretKey not set; sessions cannot be issued or verified. Provide SECRET_KEY via environment.")
	}
	if C.App.EncryptionKey == "" {
		logger.GetLogger().Warn("No encryption key configured; platform token persistence will be refused.")
	}
}

func initOAuth(C *Config) {
	if v := os.Getenv("GOOGLE_CLIENT_ID"); v != "" {
		C.OAuth.Google.ClientID = v
	}
	if v := os.Getenv("GOOGLE_CLIENT_SECRET"); v != "" {
		C.OAuth.Google.ClientSecret = v
	}
	if v := os.Getenv("FACEBOOK_APP_ID"); v != "" {
		C.OAuth.Facebook.ClientID = v
	}
	if v := os.Getenv("FACEBOOK_APP_SECRET"); v != "" {
		C.OAuth.Facebook.ClientSecret = v
	}
	// The Instagram connect flow rides on the Facebook app unless a separate
	// Meta app is configured.
	if C.OAuth.Meta.ClientID == "" {
		C.OAuth.Meta = C.OAuth.Facebook
	}
	if v := os.Getenv("CLOUDINARY_CLOUD_NAME"); v != "" {
		C.Cloudinary.CloudName = v
	}
	if v := os.Getenv("CLOUDINARY_API_KEY"); v != "" {
		C.Cloudinary.APIKey = v
	}
	if v := os.Getenv("CLOUDINARY_API_SECRET"); v != "" {
		C.Cloudinary.APISecret = v
	}
	if C.Cloudinary.Folder == "" {
		C.Cloudinary.Folder = "creator-studio-uploads"
	}
	if C.Pubsub.Topic == "" {
		C.Pubsub.Topic = "post-published"
	}
	if C.ServiceBus.Queue == "" {
		C.ServiceBus.Queue = "post-published"
	}
}
