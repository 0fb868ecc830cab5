package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/mr-joshcrane/freshet"
	"github.com/mr-joshcrane/freshet/store"
)

func handler(ctx context.Context, event events.EventBridgeEvent) {
	dynamo, err := store.NewDynamoDBStore()
	if err != nil {
		fmt.Println("Error connecting to store", err)
		os.Exit(1)
	}
	s := freshet.NewEventBridgeSubscriber(event, dynamo)
	err = s.Receive(ctx)
	if err != nil {
		os.Exit(1)
	}
	var o freshet.Observation
	err = json.Unmarshal(event.Detail, &o)
	if err != nil {
		fmt.Println("Error unmarshalling observation", err)
		os.Exit(1)
	}
	fmt.Println("Received observation", o)
	stored, err := s.Store.Observations(o.Label)
	if err != nil {
		fmt.Println("Error retrieving stored observations", err)
		os.Exit(1)
	}
	fmt.Println("Stored observations", stored)
}

func main() {
	lambda.Start(handler)
}
