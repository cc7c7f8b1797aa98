package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/uniauth/idjwt"
)

func main() {
	envPath := defaultEnvPath()
	if err := loadEnvFile(envPath); err != nil {
		log.Printf("warning: load %s: %v", envPath, err)
	}

	var (
		defaultPrivateKey = os.Getenv("IDJWT_PRIVATE_KEY_FILE")
		defaultPublicKey  = os.Getenv("IDJWT_PUBLIC_KEY_FILE")
		defaultIssuer     = os.Getenv("IDJWT_ISSUER")
		defaultAudience   = os.Getenv("IDJWT_AUDIENCE")
		defaultKeyID      = os.Getenv("IDJWT_KEY_ID")
	)

	privateKeyFile := flag.String("private-key", defaultPrivateKey, "Path to PEM private key (env IDJWT_PRIVATE_KEY_FILE)")
	publicKeyFile := flag.String("public-key", defaultPublicKey, "Path to PEM public key (env IDJWT_PUBLIC_KEY_FILE)")
	issuer := flag.String("issuer", defaultIssuer, "Issuer claim (env IDJWT_ISSUER)")
	audience := flag.String("audience", defaultAudience, "Audience claim (env IDJWT_AUDIENCE)")
	subject := flag.String("subject", "", "Subject claim")
	identity := flag.String("identity", "", "Identity claim (defaults to subject)")
	tenancy := flag.String("tenancy", "", "Tenancy id claim; empty leaves the claim out")
	keyID := flag.String("kid", defaultKeyID, "Key id stamped on the token header (env IDJWT_KEY_ID)")
	ttl := flag.Duration("ttl", time.Hour, "Token lifetime")
	flag.Parse()

	if *privateKeyFile == "" || *publicKeyFile == "" {
		flag.Usage()
		log.Fatal("both -private-key and -public-key are required (via flag, .env, or environment variables)")
	}

	privatePEM, err := os.ReadFile(*privateKeyFile)
	if err != nil {
		log.Fatalf("read private key: %v", err)
	}
	publicPEM, err := os.ReadFile(*publicKeyFile)
	if err != nil {
		log.Fatalf("read public key: %v", err)
	}

	sec, err := idjwt.New(idjwt.Config{
		PrivateKeyPEM: string(privatePEM),
		PublicKeyPEM:  string(publicPEM),
		KeyID:         *keyID,
		TokenTTL:      *ttl,
	})
	if err != nil {
		log.Fatalf("create security: %v", err)
	}

	id := idjwt.Identity{
		Issuer:   *issuer,
		Audience: *audience,
		Subject:  *subject,
		Identity: *identity,
	}
	if id.Identity == "" {
		id.Identity = *subject
	}
	if *tenancy != "" {
		n, err := strconv.ParseInt(*tenancy, 10, 64)
		if err != nil {
			log.Fatalf("parse tenancy id %q: %v", *tenancy, err)
		}
		id.TenancyID = idjwt.Tenancy(n)
	}

	token, err := sec.Sign(id)
	if err != nil {
		log.Fatalf("sign token: %v", err)
	}
	fmt.Println(token)
}

func defaultEnvPath() string {
	if path := os.Getenv("IDJWT_ENV_FILE"); path != "" {
		return path
	}
	return ".env"
}

func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			log.Printf("warning: invalid line %d in %s", lineNum, filepath.Base(path))
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.Trim(strings.TrimSpace(parts[1]), `"'`)
		if key == "" {
			continue
		}
		if _, exists := os.LookupEnv(key); exists {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			log.Printf("warning: set env %s: %v", key, err)
		}
	}
	return scanner.Err()
}
