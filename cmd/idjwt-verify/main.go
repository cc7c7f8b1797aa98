package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
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
		defaultToken      = os.Getenv("IDJWT_TOKEN")
	)

	privateKeyFile := flag.String("private-key", defaultPrivateKey, "Path to PEM private key (env IDJWT_PRIVATE_KEY_FILE)")
	publicKeyFile := flag.String("public-key", defaultPublicKey, "Path to PEM public key (env IDJWT_PUBLIC_KEY_FILE)")
	token := flag.String("token", defaultToken, "Token to verify; reads stdin when empty (env IDJWT_TOKEN)")
	skew := flag.Duration("skew", 30*time.Second, "Acceptable clock skew")
	flag.Parse()

	if *privateKeyFile == "" || *publicKeyFile == "" {
		flag.Usage()
		log.Fatal("both -private-key and -public-key are required (via flag, .env, or environment variables)")
	}
	if *token == "" {
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			log.Fatalf("read token from stdin: %v", err)
		}
		*token = strings.TrimSpace(line)
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
		ClockSkew:     *skew,
	})
	if err != nil {
		log.Fatalf("create security: %v", err)
	}

	id, err := sec.Verify(*token)
	if err != nil {
		var idErr *idjwt.Error
		if errors.As(err, &idErr) {
			log.Fatalf("verification failed (%s): %v", idErr.Code, err)
		}
		log.Fatalf("verification failed: %v", err)
	}

	printIdentity(id)
}

func printIdentity(id *idjwt.Identity) {
	fmt.Println("== Identity Token Verified ==")
	fmt.Printf("issuer     : %s\n", id.Issuer)
	fmt.Printf("audience   : %s\n", id.Audience)
	fmt.Printf("subject    : %s\n", id.Subject)
	fmt.Printf("identity   : %s\n", id.Identity)
	if id.TenancyID != nil {
		fmt.Printf("tenancy_id : %d\n", *id.TenancyID)
	}
	if !id.IssuedAt.IsZero() {
		fmt.Printf("issued_at  : %s\n", id.IssuedAt.Format(time.RFC3339))
	}
	if !id.ExpiresAt.IsZero() {
		fmt.Printf("expires_at : %s\n", id.ExpiresAt.Format(time.RFC3339))
	}
	if id.TokenID != "" {
		fmt.Printf("jti        : %s\n", id.TokenID)
	}
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
