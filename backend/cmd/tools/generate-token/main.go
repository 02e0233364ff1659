package main

import (
	"crypto/rand"
	"encoding/base64"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/itchan-dev/gallery/shared/config"
	"github.com/itchan-dev/gallery/shared/domain"
	"github.com/itchan-dev/gallery/shared/jwt"
)

func main() {
	var (
		configFolder string
		subject      string
		ttl          time.Duration
		newKey       bool
	)
	flag.StringVar(&configFolder, "config_folder", "config", "path to folder with configs")
	flag.StringVar(&subject, "subject", "admin", "token subject")
	flag.DurationVar(&ttl, "ttl", 0, "token lifetime, defaults to jwt_ttl from config")
	flag.BoolVar(&newKey, "new-key", false, "print a fresh signing key instead of a token")
	flag.Parse()

	if newKey {
		printKey()
		return
	}

	cfg := config.MustLoad(configFolder)
	if ttl == 0 {
		ttl = cfg.JwtTTL()
	}

	token, err := jwt.New(cfg.JwtKey(), ttl).NewToken(domain.Principal{Subject: subject, Admin: true})
	if err != nil {
		log.Fatalf("Failed to create token: %v", err)
	}

	fmt.Println("=================================================")
	fmt.Println("  Gallery admin token")
	fmt.Println("=================================================")
	fmt.Println()
	fmt.Printf("Subject: %s, expires: %s\n", subject, time.Now().Add(ttl).Format(time.RFC3339))
	fmt.Println()
	fmt.Println(token)
	fmt.Println()
	fmt.Println("Use it as a cookie or header:")
	fmt.Printf("Authorization: Bearer %s\n", token)
	fmt.Println("=================================================")
}

func printKey() {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("Failed to generate signing key: %v", err)
	}
	encoded := base64.StdEncoding.EncodeToString(key)

	fmt.Println("Add this to your config/private.yaml:")
	fmt.Printf("jwt_key: \"%s\"\n", encoded)
	fmt.Println()
	fmt.Println("IMPORTANT:")
	fmt.Println("- Keep this key secret and secure!")
	fmt.Println("- Rotating it invalidates every issued token.")
	fmt.Println("- Never commit this key to version control!")
}
