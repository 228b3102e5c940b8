// Command token mints a signed access token for local testing:
//
//	JWT_SECRET=dev go run ./cmd/token -user 10 -role CUSTOMER
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/utils"
)

func main() {
	_ = godotenv.Load()

	user := flag.Uint64("user", 0, "user id (sub claim)")
	role := flag.String("role", string(model.RoleCustomer), "CUSTOMER or ADMIN")
	ttl := flag.Duration("ttl", 0, "token lifetime (default ACCESS_TOKEN_TTL or 24h)")
	flag.Parse()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		fail("JWT_SECRET is not set")
	}
	if *user == 0 {
		fail("-user is required")
	}
	r, ok := model.ParseRole(*role)
	if !ok {
		fail("unknown role " + *role)
	}
	if *ttl <= 0 {
		*ttl = envTTL()
	}

	tok, err := utils.NewAccessToken(secret, model.Principal{UserID: *user, Role: r}, *ttl)
	if err != nil {
		fail(err.Error())
	}
	fmt.Println(tok.Token)
	fmt.Fprintf(os.Stderr, "expires %s\n", tok.Exp.Format("2006-01-02 15:04:05 MST"))
}

func envTTL() (d time.Duration) {
	d = 24 * time.Hour
	if v, err := time.ParseDuration(os.Getenv("ACCESS_TOKEN_TTL")); err == nil && v > 0 {
		d = v
	}
	return d
}

func fail(msg string) {
	fmt.Fprintln(os.Stderr, "token:", msg)
	os.Exit(2)
}
