package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"log"
	"time"

	"river-transit/ticketdesk/internal/auth"
	"river-transit/ticketdesk/internal/config"
	"river-transit/ticketdesk/internal/constants"
	"river-transit/ticketdesk/internal/db"
	"river-transit/ticketdesk/internal/db/repositories"
	"river-transit/ticketdesk/internal/models/entities"

	"github.com/joho/godotenv"
)

// Issues a desk terminal API key, or with -jwt a bearer token for a
// dashboard user.
func main() {
	label := flag.String("label", "", "terminal label, e.g. pier-1")
	role := flag.String("role", string(constants.RoleSeller), "seller or admin")
	jwtUser := flag.String("jwt", "", "issue a bearer token for this user id instead of an API key")
	ttl := flag.Duration("ttl", 12*time.Hour, "bearer token lifetime")
	flag.Parse()

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	deskRole := constants.DeskRole(*role)
	if !deskRole.Valid() {
		log.Fatalf("unknown role %q", *role)
	}

	if *jwtUser != "" {
		if cfg.JWTSecret == "" {
			log.Fatal("JWT_SECRET is not set")
		}
		token, err := auth.NewTokenService([]byte(cfg.JWTSecret)).Issue(*jwtUser, deskRole, *ttl)
		if err != nil {
			log.Fatalf("issue token: %v", err)
		}
		fmt.Println(token)
		return
	}

	if *label == "" {
		log.Fatal("-label is required")
	}

	if err := db.InitPostgres(cfg.PostgresDSN()); err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.DB.Close()

	ctx := context.Background()
	if err := db.EnsureAPIKeysTable(ctx, db.DB); err != nil {
		log.Fatalf("prepare api_keys: %v", err)
	}

	raw := make([]byte, 24)
	if _, err := rand.Read(raw); err != nil {
		log.Fatalf("generate key: %v", err)
	}
	key := "tk_" + hex.EncodeToString(raw)

	k := &entities.ApiKey{Key: key, Label: *label, Role: deskRole, Status: "active"}
	if err := repositories.NewApiKeysRepo(db.DB).Insert(ctx, k); err != nil {
		log.Fatalf("insert api key: %v", err)
	}

	fmt.Println("New API Key:", key)
}
