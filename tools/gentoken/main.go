// gentoken prints a bearer token for local testing of activity-api.
//
//	go run ./tools/gentoken -user 10001 -role admin -secret "$ACCESS_SECRET"
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/Wepsel/Ouderenapp/common/utils/jwt"
)

func main() {
	secret := flag.String("secret", os.Getenv("ACCESS_SECRET"), "Auth.AccessSecret of the api config")
	userID := flag.Int64("user", 10001, "user id, must exist in the users table")
	role := flag.String("role", string(jwt.RoleUser), "user | admin")
	expire := flag.Int64("expire", 7*24*3600, "lifetime in seconds")
	flag.Parse()

	res, err := jwt.GenerateToken(*userID, jwt.Role(*role), jwt.AuthConfig{Secret: *secret, Expire: *expire}, time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "generate token: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("user=%d role=%s expires=%s\n\n", *userID, *role, time.Unix(res.ExpireAt, 0).Format(time.RFC3339))
	fmt.Println("Authorization: Bearer " + res.Token)
}
