package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/dmitrijs2005/foodgram/internal/flagx"
	"github.com/dmitrijs2005/foodgram/internal/server"
	"github.com/dmitrijs2005/foodgram/internal/server/config"
	"github.com/dmitrijs2005/foodgram/internal/server/loaddata"
	"github.com/dmitrijs2005/foodgram/internal/server/services"
)

func main() {

	fs := flag.NewFlagSet("loaddata", flag.ExitOnError)
	path := fs.String("f", loaddata.DefaultPath, "ingredient JSON file")
	_ = fs.Parse(flagx.FilterArgs(os.Args[1:], []string{"-f"}))

	ctx := context.Background()
	cfg := config.LoadConfig()

	db, rm, err := server.OpenDB(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer db.Close()

	n, err := loaddata.Run(ctx, *path, services.NewIngredientService(db, rm))
	if err != nil {
		log.Fatalf("%v", err)
	}

	fmt.Printf("Import finished. Rows added: %d\n", n)

}
