package freshet

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Read fetches the recorded history for one label and returns the
// rendered observation lines in production order.
func Read(ctx context.Context, label string) ([]string, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}
	client := dynamodb.NewFromConfig(cfg)
	query := Query(label)
	results, err := client.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return ParseQueryResults(results)
}

func Query(label string) *dynamodb.QueryInput {
	return &dynamodb.QueryInput{
		TableName:              aws.String("freshet"),
		KeyConditionExpression: aws.String("Label = :label"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":label": &types.AttributeValueMemberS{Value: label},
		},
	}
}

func ParseQueryResults(query *dynamodb.QueryOutput) ([]string, error) {
	var observations []Observation
	for _, item := range query.Items {
		o, err := parseObservation(item)
		if err != nil {
			return nil, err
		}
		observations = append(observations, o)
	}
	sort.Slice(observations, func(i, j int) bool {
		return observations[i].Order < observations[j].Order
	})
	var lines []string
	for _, o := range observations {
		lines = append(lines, o.String())
	}
	return lines, nil
}

func parseObservation(item map[string]types.AttributeValue) (Observation, error) {
	label, ok := item["Label"].(*types.AttributeValueMemberS)
	if !ok {
		return Observation{}, fmt.Errorf("item has no Label attribute")
	}
	order, err := itemNumber(item, "Order")
	if err != nil {
		return Observation{}, err
	}
	value, err := itemNumber(item, "Value")
	if err != nil {
		return Observation{}, err
	}
	var start bool
	if s, ok := item["Start"].(*types.AttributeValueMemberBOOL); ok {
		start = s.Value
	}
	return Observation{
		Label: label.Value,
		Order: order,
		Value: value,
		Start: start,
	}, nil
}

func itemNumber(item map[string]types.AttributeValue, name string) (int, error) {
	attr, ok := item[name].(*types.AttributeValueMemberN)
	if !ok {
		return 0, fmt.Errorf("item has no %s attribute", name)
	}
	n, err := strconv.ParseInt(attr.Value, 10, 64)
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
