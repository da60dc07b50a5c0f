package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/WooDaeYoon/dahandinworld/internal/dahandin"
	"github.com/WooDaeYoon/dahandinworld/internal/db"
	"github.com/WooDaeYoon/dahandinworld/internal/service"
)

// Seeds a teacher account for local development and prints a login token.
func main() {
	id := flag.String("id", "demo-teacher", "teacher id")
	password := flag.String("password", "demo-password", "teacher password")
	apiKey := flag.String("api-key", "demo-api-key", "dahandin api key")
	classCode := flag.String("class-code", "DEMO01", "class code")
	flag.Parse()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}

	pool := db.Connect(dsn)
	defer pool.Close()

	service.InitJWT()

	auth := service.NewAuthService(pool, dahandin.NewClient("", nil), nil)
	ctx := context.Background()

	teacher, err := auth.RegisterTeacher(ctx, service.RegisterTeacherRequest{
		ID:        *id,
		Password:  *password,
		APIKey:    *apiKey,
		ClassName: "Demo Class",
		ClassCode: *classCode,
	})
	if err != nil {
		if err == service.ErrTeacherExists {
			log.Printf("teacher %s already exists", *id)
		} else {
			log.Fatalf("register teacher: %v", err)
		}
	} else {
		log.Printf("teacher created id=%s scope=%s", teacher.ID, teacher.ClassScope)
	}

	token, _, err := auth.LoginTeacher(ctx, *id, *password)
	if err != nil {
		log.Fatalf("login: %v", err)
	}
	log.Printf("token=%s", token)
}
