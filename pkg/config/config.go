package config

import "os"

type Config struct {
	Port         string
	Env          string
	LogLevel     string
	JWTSecret    string
	MediaDir     string
	MediaURL     string
	S3Bucket     string
	S3Region     string
	S3AccessKey  string
	S3SecretKey  string
	S3Endpoint   string
	S3BaseURL    string
	ESURL        string
	ESUser       string
	ESPassword   string
	KafkaAddress string
	KafkaTopic   string
}

func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "8080"),
		Env:          getEnv("ENV", "development"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		JWTSecret:    getEnv("JWT_SECRET", "supersecretjwtkey"),
		MediaDir:     getEnv("MEDIA_DIR", "./media"),
		MediaURL:     getEnv("MEDIA_URL", "/media"),
		S3Bucket:     getEnv("S3_BUCKET", ""),
		S3Region:     getEnv("S3_REGION", "us-east-1"),
		S3AccessKey:  getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:  getEnv("S3_SECRET_KEY", ""),
		S3Endpoint:   getEnv("S3_ENDPOINT", ""),
		S3BaseURL:    getEnv("S3_BASE_URL", ""),
		ESURL:        getEnv("ES_URL", ""),
		ESUser:       getEnv("ES_USER", ""),
		ESPassword:   getEnv("ES_PASSWORD", ""),
		KafkaAddress: getEnv("KAFKA_ADDRESS", ""),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "recipe_events"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
