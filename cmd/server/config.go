package main

import "time"

type Config struct {
	Host            string        `env:"HOST,default=localhost"`
	Port            int           `env:"PORT,default=8080"`
	BadgerFilepath  string        `env:"BADGER_FILEPATH,required=true"`
	LogLevel        string        `env:"LOG_LEVEL,default=INFO"`
	JWTSecret       string        `env:"JWT_SECRET,required=true"`
	TokenDuration   time.Duration `env:"TOKEN_DURATION,default=24h"`
	TypingTTL       time.Duration `env:"TYPING_TTL,default=10s"`
	MessagePageSize int           `env:"MESSAGE_PAGE_SIZE,default=50"`
	// Comma-separated words to mask in message content. Empty disables
	// the censor.
	CensoredWords string `env:"CENSORED_WORDS"`
}
