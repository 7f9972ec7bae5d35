package dynamo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/gofrs/uuid/v5"

	"github.com/skumar93/folio/models"
	"github.com/skumar93/folio/store"
)

// GSI over the CustomSlug attribute; unpublished portfolios have no slug and
// therefore never appear in it.
const slugIndexName = "GSI_Slug"

type DynamoFolioStore struct {
	client    *dynamodb.Client
	tableName string
}

func NewDynamoFolioStore(ctx context.Context, devMode bool, dynamodbEndpoint string, tableName string) (*DynamoFolioStore, error) {
	client, err := newDynamoDBClient(context.Background(), devMode, dynamodbEndpoint)
	if err != nil {
		return nil, err
	}

	tables, err := getTables(client, ctx)
	if err != nil {
		return nil, err
	}

	foundTable := false
	for _, table := range tables {
		if table == tableName {
			foundTable = true
			break
		}
	}
	if !foundTable {
		return nil, fmt.Errorf("given table name '%s' not found in dynamodb", tableName)
	}

	return &DynamoFolioStore{client: client, tableName: tableName}, nil
}

func (dynamoStore *DynamoFolioStore) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	userId, err := uuid.NewV4()
	if err != nil {
		return models.User{}, err
	}
	user.Id = userId.String()
	user.Created = time.Now().Unix()

	du := userToDynamo(user)
	if err := createItem(dynamoStore, ctx, du); err != nil {
		if errors.Is(err, store.ErrConditionFailed) {
			// Email already registered
			return models.User{}, store.ErrConditionFailed
		}
		return models.User{}, err
	}

	return user, nil
}

func (dynamoStore *DynamoFolioStore) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	du, err := getItem[dynamoUser](dynamoStore, ctx, "ACCOUNT#"+email, "PROFILE", false)
	if err != nil {
		return models.User{}, err
	}

	return userFromDynamo(du), nil
}

func (dynamoStore *DynamoFolioStore) GetPortfolio(ctx context.Context, ownerId string) (models.PortfolioDocument, error) {
	dp, err := getItem[dynamoPortfolio](dynamoStore, ctx, portfolioPK(ownerId), "DOC", false)
	if err != nil {
		return models.PortfolioDocument{}, err
	}

	return portfolioFromDynamo(dp), nil
}

func (dynamoStore *DynamoFolioStore) PutPortfolio(ctx context.Context, ownerId string, doc models.PortfolioDocument) error {
	return putItem(dynamoStore, ctx, portfolioToDynamo(ownerId, doc))
}

func (dynamoStore *DynamoFolioStore) PutPortfolioSections(ctx context.Context, ownerId string, doc models.PortfolioDocument, fields []string) error {
	dp := portfolioToDynamo(ownerId, doc)
	_, err := updateItemFields(dynamoStore, ctx, dp, fields)
	if errors.Is(err, store.ErrItemNotFound) {
		// First save for this owner: no record to patch yet, write the
		// whole document instead.
		return putItem(dynamoStore, ctx, dp)
	}
	return err
}

func (dynamoStore *DynamoFolioStore) FindPortfolioBySlug(ctx context.Context, slug string) (models.PublishedPortfolio, error) {
	dp, err := queryFirstByGSI[dynamoPortfolio](dynamoStore, ctx, slugIndexName, "CustomSlug", slug)
	if err != nil {
		return models.PublishedPortfolio{}, err
	}

	return models.PublishedPortfolio{OwnerId: dp.OwnerId, Doc: portfolioFromDynamo(dp)}, nil
}

func (dynamoStore *DynamoFolioStore) GetAccountTier(ctx context.Context, ownerId string) (models.AccountTier, error) {
	dt, err := getItem[dynamoTier](dynamoStore, ctx, "TIER#"+ownerId, "PLAN", false)
	if errors.Is(err, store.ErrItemNotFound) {
		// Accounts without a tier record are on the free plan
		return models.AccountTier{Tier: models.TierBasic}, nil
	}
	if err != nil {
		return models.AccountTier{}, err
	}

	return models.AccountTier{Tier: dt.Tier}, nil
}

func (dynamoStore *DynamoFolioStore) IncrementPortfolioViews(ctx context.Context, ownerId string, count int) error {
	return incrementCounter(dynamoStore, ctx, portfolioPK(ownerId), "DOC", "Views", count)
}
