package store

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type DynamoDBClient interface {
	PutItem(ctx context.Context, input *dynamodb.PutItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, input *dynamodb.QueryInput, opts ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

type DynamoDBStore struct {
	client DynamoDBClient
	table  string
}

func NewDynamoDBStore() (*DynamoDBStore, error) {
	cfg, err := config.LoadDefaultConfig(context.Background())
	if err != nil {
		return nil, err
	}
	return &DynamoDBStore{
		client: dynamodb.NewFromConfig(cfg),
		table:  "freshet",
	}, nil
}

func NewDynamoDBStoreWithClient(client DynamoDBClient) *DynamoDBStore {
	return &DynamoDBStore{
		client: client,
		table:  "freshet",
	}
}

func (s *DynamoDBStore) Save(observations []Observation) error {
	ctx := context.Background()
	for _, o := range observations {
		command := &dynamodb.PutItemInput{
			TableName: aws.String(s.table),
			Item: map[string]types.AttributeValue{
				"Label": &types.AttributeValueMemberS{Value: o.Label},
				"Order": &types.AttributeValueMemberN{Value: fmt.Sprint(o.Order)},
				"Value": &types.AttributeValueMemberN{Value: fmt.Sprint(o.Value)},
				"Start": &types.AttributeValueMemberBOOL{Value: o.Start},
			},
		}
		_, err := s.client.PutItem(ctx, command)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *DynamoDBStore) Observations(label string) ([]Observation, error) {
	command := dynamodb.QueryInput{
		TableName:              aws.String(s.table),
		KeyConditionExpression: aws.String("Label = :label"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":label": &types.AttributeValueMemberS{Value: label},
		},
	}
	results, err := s.client.Query(context.Background(), &command)
	if err != nil {
		return nil, err
	}
	var observations []Observation
	for _, item := range results.Items {
		o, err := parseItem(item)
		if err != nil {
			return nil, err
		}
		observations = append(observations, o)
	}
	return observations, nil
}

func parseItem(item map[string]types.AttributeValue) (Observation, error) {
	label, ok := item["Label"].(*types.AttributeValueMemberS)
	if !ok {
		return Observation{}, fmt.Errorf("item has no Label attribute")
	}
	order, err := numberAttribute(item, "Order")
	if err != nil {
		return Observation{}, err
	}
	value, err := numberAttribute(item, "Value")
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

func numberAttribute(item map[string]types.AttributeValue, name string) (int, error) {
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
