package narrator_test

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/aretw0/narrator"
	"github.com/aretw0/narrator/pkg/adapters/memory"
	"github.com/aretw0/narrator/pkg/domain"
)

func ExampleNew() {
	engine, err := narrator.New("examples/mystery/story.json")
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	start, err := engine.Start(ctx, "")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(*start.Scene.Title)

	res, err := engine.Choose(ctx, start.SessionID, "I want to re-examine the logs")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(*res.NextScene.Title)

	_, err = engine.Choose(ctx, start.SessionID, "xyz")
	var noMatch *domain.NoMatchError
	if errors.As(err, &noMatch) {
		fmt.Println("Try one of:", noMatch.AvailableChoices)
	}
	// Output:
	// Detective's Office
	// Evening Logs
	// Try one of: [Return to the office]
}

func ExampleWithStory() {
	story := memory.MustStory("Two rooms", "hall",
		domain.Scene{ID: "hall", Title: "Hall", Choices: []domain.Choice{
			{ID: "kitchen", Label: "Walk to the kitchen", NextScene: "kitchen"},
		}},
		domain.Scene{ID: "kitchen", Title: "Kitchen"},
	)

	engine, err := narrator.New("", narrator.WithStory(story))
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	start, _ := engine.Start(ctx, "")
	res, _ := engine.Choose(ctx, start.SessionID, "let's walk over to the kitchen")
	fmt.Println(res.AppliedChoice.Label, "->", *res.NextScene.Title)
	// Output:
	// Walk to the kitchen -> Kitchen
}
