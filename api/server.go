package api

import (
	"context"
	"fmt"

	awsCfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	redisAdapter "photoshare/adapters/redis"
	internalS3 "photoshare/adapters/s3"
	"photoshare/adapters/session"
	"photoshare/models"
	"photoshare/stores"
)

// ServerImpl holds the per-process state behind the request handlers. All
// request-scoped state lives in the session cookie; handlers themselves are
// stateless across requests.
type ServerImpl struct {
	users        stores.IUserStore
	photos       stores.IPhotoStore
	blobs        stores.IBlobStore
	sessionStore session.IStore
	htmlChecker  *bluemonday.Policy
	db           *gorm.DB

	config ServerConfig
}

func NewServer(config ServerConfig) (*ServerImpl, error) {
	const op = "NewServer"

	// S3 client for the photo bucket
	s3Cfg, err := awsCfg.LoadDefaultConfig(
		context.Background(),
		awsCfg.WithBaseEndpoint(config.S3.Endpoint),
		awsCfg.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(config.S3.AccessKeyID, config.S3.SecretAccessKey, "")),
		awsCfg.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("[%s] Fail to load AWS config, err=%w", op, err)
	}
	blobs, err := internalS3.NewS3Operator(s3.NewFromConfig(s3Cfg), config.S3.Bucket, config.S3.PublicBaseURL)
	if err != nil {
		return nil, fmt.Errorf("[%s] Fail to create S3 operator, err=%w", op, err)
	}

	// database connection
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable&search_path=%s", config.DB.User, config.DB.Password, config.DB.Host, config.DB.Port, config.DB.Database, config.DB.Schema)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("[%s] Fail to connect to database, err=%w", op, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("[%s] Fail to get database handle, err=%w", op, err)
	}
	// Small fixed pool; requests beyond it wait on the pool primitive.
	sqlDB.SetMaxOpenConns(3)

	if err := models.Migrate(db); err != nil {
		return nil, fmt.Errorf("[%s] Fail to migrate schema, err=%w", op, err)
	}

	// session store: Redis when configured, otherwise process-local
	var sessionStore session.IStore
	if config.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     config.Redis.Addr,
			Password: config.Redis.Password,
			DB:       config.Redis.DB,
		})
		sessionStore = redisAdapter.NewStore(
			redisClient,
			redisAdapter.WithStorePrefix(config.Redis.KeyPrefix+"session:"),
			redisAdapter.WithStoreTTL(config.Session.CookieMaxAge),
		)
	} else {
		sessionStore = session.NewMemoryStore(
			session.WithMemoryStoreTTL(config.Session.CookieMaxAge),
		)
	}

	return &ServerImpl{
		users:        stores.NewUserStore(db),
		photos:       stores.NewPhotoStore(db, blobs),
		blobs:        blobs,
		sessionStore: sessionStore,
		htmlChecker:  bluemonday.UGCPolicy(),
		db:           db,
		config:       config,
	}, nil
}

func (impl *ServerImpl) Close() {
	if sqlDB, err := impl.db.DB(); err == nil {
		sqlDB.Close()
	}
}
