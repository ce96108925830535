package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"trendhub/internal/auth"
	"trendhub/pkg/utils"
)

// Mints an admin token for the trigger endpoint from the configured
// JWT secret. The token goes to stdout so it can be piped straight
// into curl.
func main() {
	name := flag.String("name", "admin", "subject name embedded in the token")
	flag.Parse()

	_ = godotenv.Load()
	cfg := utils.Load()

	tokens := auth.TokenService{
		Secret:   []byte(cfg.JWTSecret),
		Issuer:   cfg.JWTIssuer,
		Duration: cfg.JWTDuration,
	}

	tok, exp, err := tokens.Sign(*name)
	if err != nil {
		logrus.Fatalf("sign token: %v", err)
	}

	fmt.Println(tok)
	fmt.Fprintf(os.Stderr, "expires %s\n", exp.Format(time.RFC3339))
}
