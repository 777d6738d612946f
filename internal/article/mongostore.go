package article

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/SergeyParamoshkin/news/internal/model"
)

const (
	newsCollection       = "news"
	categoriesCollection = "categories"
	usersCollection      = "users"
)

type articleDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	Excerpt   string             `bson:"excerpt"`
	Content   string             `bson:"content"`
	Category  string             `bson:"category"`
	Author    string             `bson:"author"`
	Image     string             `bson:"image"`
	Featured  bool               `bson:"featured"`
	Views     int64              `bson:"views"`
	Likes     []string           `bson:"likes"`
	Comments  []commentDoc       `bson:"comments"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

type commentDoc struct {
	ID        primitive.ObjectID `bson:"_id"`
	User      string             `bson:"user"`
	Text      string             `bson:"text"`
	CreatedAt time.Time          `bson:"createdAt"`
}

type categoryDoc struct {
	ID    string `bson:"_id"`
	Name  string `bson:"name"`
	Color string `bson:"color"`
}

type userDoc struct {
	ID     primitive.ObjectID `bson:"_id"`
	Name   string             `bson:"name"`
	Avatar string             `bson:"avatar"`
	Role   string             `bson:"role"`
}

// MongoStore keeps articles in a MongoDB collection with a text index over
// title, excerpt and content.
type MongoStore struct {
	client     *mongo.Client
	news       *mongo.Collection
	categories *mongo.Collection
	users      *mongo.Collection
}

var _ Store = (*MongoStore)(nil)

// ConnectMongo dials uri, verifies the connection and returns a store over database.
func ConnectMongo(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)

		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return NewMongoStore(client, database), nil
}

func NewMongoStore(client *mongo.Client, database string) *MongoStore {
	db := client.Database(database)

	return &MongoStore{
		client:     client,
		news:       db.Collection(newsCollection),
		categories: db.Collection(categoriesCollection),
		users:      db.Collection(usersCollection),
	}
}

// EnsureIndexes creates the text index and the listing indexes. It is idempotent.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.news.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "title", Value: "text"},
				{Key: "excerpt", Value: "text"},
				{Key: "content", Value: "text"},
			},
			Options: options.Index().SetName("news_text"),
		},
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "featured", Value: 1}, {Key: "createdAt", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("create indexes: %w", err)
	}

	return nil
}

func (s *MongoStore) List(ctx context.Context, q model.ListQuery) ([]*model.Article, int64, error) {
	filter := listFilter(q)

	total, err := s.news.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count news: %w", err)
	}

	out, err := s.find(ctx, filter, listOptions(q))
	if err != nil {
		return nil, 0, err
	}

	return out, total, nil
}

func (s *MongoStore) Featured(ctx context.Context, limit int) ([]*model.Article, error) {
	opts := options.Find().SetSort(newestFirst()).SetLimit(int64(limit))

	return s.find(ctx, bson.D{{Key: "featured", Value: true}}, opts)
}

func (s *MongoStore) ByCategory(ctx context.Context, categoryID string) ([]*model.Article, error) {
	opts := options.Find().SetSort(newestFirst())

	return s.find(ctx, bson.D{{Key: "category", Value: categoryID}}, opts)
}

func (s *MongoStore) Get(ctx context.Context, id string) (*model.Article, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, model.ErrNotFound
	}

	var doc articleDoc
	if err := s.news.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc); err != nil {
		return nil, notFound(err, "get news")
	}

	return doc.model(), nil
}

func (s *MongoStore) Insert(ctx context.Context, a *model.Article) error {
	doc, err := newArticleDoc(a)
	if err != nil {
		return err
	}
	if _, err := s.news.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert news: %w", err)
	}
	a.ID = doc.ID.Hex()

	return nil
}

func (s *MongoStore) Update(ctx context.Context, id string, patch model.ArticlePatch, now time.Time) (*model.Article, error) {
	return s.findOneAndUpdate(ctx, id, nil, patchUpdate(patch, now), nil)
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return model.ErrNotFound
	}

	res, err := s.news.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return fmt.Errorf("delete news: %w", err)
	}
	if res.DeletedCount == 0 {
		return model.ErrNotFound
	}

	return nil
}

func (s *MongoStore) IncrementViews(ctx context.Context, id string, now time.Time) (*model.Article, error) {
	update := bson.D{
		{Key: "$inc", Value: bson.D{{Key: "views", Value: 1}}},
		{Key: "$set", Value: bson.D{{Key: "updatedAt", Value: now}}},
	}

	return s.findOneAndUpdate(ctx, id, nil, update, nil)
}

// ToggleLike pulls userID when it is present and adds it otherwise. $addToSet
// keeps likes free of duplicates even when two toggles race.
func (s *MongoStore) ToggleLike(ctx context.Context, id, userID string, now time.Time) ([]string, error) {
	projection := bson.D{{Key: "likes", Value: 1}}
	stamp := bson.D{{Key: "updatedAt", Value: now}}

	a, err := s.findOneAndUpdate(ctx, id,
		bson.D{{Key: "likes", Value: userID}},
		bson.D{
			{Key: "$pull", Value: bson.D{{Key: "likes", Value: userID}}},
			{Key: "$set", Value: stamp},
		},
		projection,
	)
	if errors.Is(err, model.ErrNotFound) {
		a, err = s.findOneAndUpdate(ctx, id, nil,
			bson.D{
				{Key: "$addToSet", Value: bson.D{{Key: "likes", Value: userID}}},
				{Key: "$set", Value: stamp},
			},
			projection,
		)
	}
	if err != nil {
		return nil, err
	}

	return a.Likes, nil
}

func (s *MongoStore) AppendComment(ctx context.Context, id string, c model.Comment) ([]model.Comment, error) {
	doc := commentDoc{ID: primitive.NewObjectID(), User: c.User, Text: c.Text, CreatedAt: c.CreatedAt}
	update := bson.D{
		{Key: "$push", Value: bson.D{{Key: "comments", Value: doc}}},
		{Key: "$set", Value: bson.D{{Key: "updatedAt", Value: c.CreatedAt}}},
	}

	a, err := s.findOneAndUpdate(ctx, id, nil, update, bson.D{{Key: "comments", Value: 1}})
	if err != nil {
		return nil, err
	}

	return a.Comments, nil
}

func (s *MongoStore) Category(ctx context.Context, id string) (*model.Category, error) {
	var doc categoryDoc

	err := s.categories.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}

	return &model.Category{ID: doc.ID, Name: doc.Name, Color: doc.Color}, nil
}

func (s *MongoStore) Users(ctx context.Context, ids []string) (map[string]*model.User, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}
	out := make(map[string]*model.User, len(oids))
	if len(oids) == 0 {
		return out, nil
	}

	cur, err := s.users.Find(ctx, bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: oids}}}})
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	var docs []userDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	for _, d := range docs {
		out[d.ID.Hex()] = &model.User{ID: d.ID.Hex(), Name: d.Name, Avatar: d.Avatar, Role: d.Role}
	}

	return out, nil
}

func (s *MongoStore) UpsertCategory(ctx context.Context, c *model.Category) error {
	doc := categoryDoc{ID: c.ID, Name: c.Name, Color: c.Color}
	_, err := s.categories.ReplaceOne(ctx, bson.D{{Key: "_id", Value: c.ID}}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert category %s: %w", c.ID, err)
	}

	return nil
}

func (s *MongoStore) UpsertUser(ctx context.Context, u *model.User) error {
	oid, err := primitive.ObjectIDFromHex(u.ID)
	if err != nil {
		return fmt.Errorf("user id %q: %w", u.ID, err)
	}
	doc := userDoc{ID: oid, Name: u.Name, Avatar: u.Avatar, Role: u.Role}
	if _, err := s.users.ReplaceOne(ctx, bson.D{{Key: "_id", Value: oid}}, doc, options.Replace().SetUpsert(true)); err != nil {
		return fmt.Errorf("upsert user %s: %w", u.ID, err)
	}

	return nil
}

// DropNews removes every article. Used by the seeder before reloading fixtures.
func (s *MongoStore) DropNews(ctx context.Context) error {
	if _, err := s.news.DeleteMany(ctx, bson.D{}); err != nil {
		return fmt.Errorf("drop news: %w", err)
	}

	return nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) find(ctx context.Context, filter bson.D, opts *options.FindOptions) ([]*model.Article, error) {
	cur, err := s.news.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find news: %w", err)
	}

	var docs []articleDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode news: %w", err)
	}

	out := make([]*model.Article, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].model())
	}

	return out, nil
}

// findOneAndUpdate applies update to the article id that also matches extra
// and returns the document after the update.
func (s *MongoStore) findOneAndUpdate(ctx context.Context, id string, extra, update, projection bson.D) (*model.Article, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, model.ErrNotFound
	}

	filter := append(bson.D{{Key: "_id", Value: oid}}, extra...)
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if projection != nil {
		opts.SetProjection(projection)
	}

	var doc articleDoc
	if err := s.news.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		return nil, notFound(err, "update news")
	}

	return doc.model(), nil
}

func listFilter(q model.ListQuery) bson.D {
	filter := bson.D{}
	if q.Category != "" {
		filter = append(filter, bson.E{Key: "category", Value: q.Category})
	}
	if q.Search != "" {
		filter = append(filter, bson.E{Key: "$text", Value: bson.D{{Key: "$search", Value: q.Search}}})
	}

	return filter
}

func listOptions(q model.ListQuery) *options.FindOptions {
	opts := options.Find().SetSkip(int64(q.Skip())).SetLimit(int64(q.Limit))
	if q.Search == "" {
		return opts.SetSort(newestFirst())
	}

	score := bson.D{{Key: "$meta", Value: "textScore"}}

	return opts.
		SetProjection(bson.D{{Key: "score", Value: score}}).
		SetSort(bson.D{{Key: "score", Value: score}, {Key: "createdAt", Value: -1}})
}

func newestFirst() bson.D {
	return bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}
}

func patchUpdate(p model.ArticlePatch, now time.Time) bson.D {
	set := bson.D{}
	add := func(key string, v *string) {
		if v != nil {
			set = append(set, bson.E{Key: key, Value: *v})
		}
	}
	add("title", p.Title)
	add("excerpt", p.Excerpt)
	add("content", p.Content)
	add("category", p.Category)
	add("image", p.Image)
	if p.Featured != nil {
		set = append(set, bson.E{Key: "featured", Value: *p.Featured})
	}
	set = append(set, bson.E{Key: "updatedAt", Value: now})

	return bson.D{{Key: "$set", Value: set}}
}

func notFound(err error, op string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.ErrNotFound
	}

	return fmt.Errorf("%s: %w", op, err)
}

func newArticleDoc(a *model.Article) (*articleDoc, error) {
	oid := primitive.NewObjectID()
	if a.ID != "" {
		var err error
		if oid, err = primitive.ObjectIDFromHex(a.ID); err != nil {
			return nil, fmt.Errorf("article id %q: %w", a.ID, err)
		}
	}

	doc := &articleDoc{
		ID:        oid,
		Title:     a.Title,
		Excerpt:   a.Excerpt,
		Content:   a.Content,
		Category:  a.Category,
		Author:    a.Author,
		Image:     a.Image,
		Featured:  a.Featured,
		Views:     a.Views,
		Likes:     append([]string{}, a.Likes...),
		Comments:  make([]commentDoc, 0, len(a.Comments)),
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
	for _, c := range a.Comments {
		cid := primitive.NewObjectID()
		if parsed, err := primitive.ObjectIDFromHex(c.ID); err == nil {
			cid = parsed
		}
		doc.Comments = append(doc.Comments, commentDoc{ID: cid, User: c.User, Text: c.Text, CreatedAt: c.CreatedAt})
	}

	return doc, nil
}

func (d *articleDoc) model() *model.Article {
	a := &model.Article{
		ID:        d.ID.Hex(),
		Title:     d.Title,
		Excerpt:   d.Excerpt,
		Content:   d.Content,
		Category:  d.Category,
		Author:    d.Author,
		Image:     d.Image,
		Featured:  d.Featured,
		Views:     d.Views,
		Likes:     append([]string{}, d.Likes...),
		Comments:  make([]model.Comment, 0, len(d.Comments)),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
	for _, c := range d.Comments {
		a.Comments = append(a.Comments, model.Comment{ID: c.ID.Hex(), User: c.User, Text: c.Text, CreatedAt: c.CreatedAt})
	}

	return a
}
