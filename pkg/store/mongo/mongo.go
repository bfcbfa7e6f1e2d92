// Package mongo implements store.Queries on MongoDB for the server.
package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	mopt "go.mongodb.org/mongo-driver/mongo/options"

	"github.com/harborcms/harbor/pkg/content"
	"github.com/harborcms/harbor/pkg/errors"
	"github.com/harborcms/harbor/pkg/store"
)

// Collection names.
const (
	collOptions     = "options"
	collPostTypes   = "postTypes"
	collPosts       = "posts"
	collPostMeta    = "postMeta"
	collTaxonomies  = "taxonomies"
	collTerms       = "taxonomyTerms"
	collAssignments = "termAssignments"
	collEntities    = "entities"
)

// Store implements store.Queries against a MongoDB database.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect dials MongoDB at uri, pings it, and returns a Store bound to the
// named database.
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	opts := mopt.Client().ApplyURI(uri)
	opts.SetConnectTimeout(10 * time.Second).SetServerSelectionTimeout(10 * time.Second)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorage, "connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(err, errors.ErrCodeStorage, "ping mongodb")
	}
	return &Store{client: client, db: client.Database(database)}, nil
}

// Close disconnects from MongoDB.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

type optionRecord struct {
	MetaKey        string `bson:"metaKey"`
	MetaValue      any    `bson:"metaValue"`
	Type           string `bson:"type"`
	OrganizationID string `bson:"organizationId"`
}

type postTypeRecord struct {
	Slug           string         `bson:"slug"`
	Name           string         `bson:"name"`
	Description    string         `bson:"description,omitempty"`
	OrganizationID string         `bson:"organizationId"`
	StorageKind    string         `bson:"storageKind"`
	StorageTables  []string       `bson:"storageTables,omitempty"`
	Rewrite        *rewriteRecord `bson:"rewrite,omitempty"`
}

type rewriteRecord struct {
	HasArchive  bool             `bson:"hasArchive"`
	ArchiveSlug string           `bson:"archiveSlug,omitempty"`
	SingleSlug  string           `bson:"singleSlug,omitempty"`
	Permalink   *permalinkRecord `bson:"permalink,omitempty"`
}

type permalinkRecord struct {
	Canonical string   `bson:"canonical"`
	Aliases   []string `bson:"aliases,omitempty"`
}

type postRecord struct {
	ID             string    `bson:"_id"`
	OrganizationID string    `bson:"organizationId"`
	PostTypeSlug   string    `bson:"postTypeSlug"`
	Slug           string    `bson:"slug"`
	Title          string    `bson:"title"`
	Excerpt        string    `bson:"excerpt,omitempty"`
	Content        string    `bson:"content,omitempty"`
	Status         string    `bson:"status"`
	CreatedAt      time.Time `bson:"createdAt"`
	UpdatedAt      time.Time `bson:"updatedAt"`
	Fields         bson.M    `bson:"fields,omitempty"`
}

type postMetaRecord struct {
	PostID string `bson:"postId"`
	Values bson.M `bson:"values"`
}

type taxonomyRecord struct {
	Slug           string `bson:"slug"`
	Name           string `bson:"name"`
	OrganizationID string `bson:"organizationId"`
}

type termRecord struct {
	ID             string `bson:"_id"`
	Slug           string `bson:"slug"`
	Name           string `bson:"name"`
	Description    string `bson:"description,omitempty"`
	TaxonomySlug   string `bson:"taxonomySlug"`
	OrganizationID string `bson:"organizationId"`
}

type assignmentRecord struct {
	TermID         string `bson:"termId"`
	ObjectID       string `bson:"objectId"`
	PostTypeSlug   string `bson:"postTypeSlug"`
	OrganizationID string `bson:"organizationId"`
}

type entityRecord struct {
	ID             string    `bson:"_id"`
	OrganizationID string    `bson:"organizationId"`
	Table          string    `bson:"table"`
	Slug           string    `bson:"slug"`
	Title          string    `bson:"title"`
	Excerpt        string    `bson:"excerpt,omitempty"`
	Content        string    `bson:"content,omitempty"`
	Status         string    `bson:"status"`
	CreatedAt      time.Time `bson:"createdAt"`
	UpdatedAt      time.Time `bson:"updatedAt"`
	Fields         bson.M    `bson:"fields,omitempty"`
}

func (r *postRecord) toContent() *content.Post {
	return &content.Post{
		ID:             r.ID,
		OrganizationID: r.OrganizationID,
		PostTypeSlug:   r.PostTypeSlug,
		Slug:           r.Slug,
		Title:          r.Title,
		Excerpt:        r.Excerpt,
		Content:        r.Content,
		Status:         r.Status,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
		Fields:         r.Fields,
	}
}

func (r *postTypeRecord) toContent() *content.PostType {
	pt := &content.PostType{
		Slug:           r.Slug,
		Name:           r.Name,
		Description:    r.Description,
		OrganizationID: r.OrganizationID,
		StorageKind:    r.StorageKind,
		StorageTables:  r.StorageTables,
	}
	if r.Rewrite != nil {
		pt.Rewrite = &content.Rewrite{
			HasArchive:  r.Rewrite.HasArchive,
			ArchiveSlug: r.Rewrite.ArchiveSlug,
			SingleSlug:  r.Rewrite.SingleSlug,
		}
		if r.Rewrite.Permalink != nil {
			pt.Rewrite.Permalink = &content.Permalink{
				Canonical: r.Rewrite.Permalink.Canonical,
				Aliases:   r.Rewrite.Permalink.Aliases,
			}
		}
	}
	return pt
}

func (r *entityRecord) toContent() *content.Entity {
	return &content.Entity{
		ID:        r.ID,
		Slug:      r.Slug,
		Title:     r.Title,
		Excerpt:   r.Excerpt,
		Content:   r.Content,
		Status:    r.Status,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
		Fields:    r.Fields,
	}
}

// Option implements store.OptionStore.
func (s *Store) Option(ctx context.Context, organizationID, metaKey, optionType string) (any, bool, error) {
	var rec optionRecord
	err := s.db.Collection(collOptions).FindOne(ctx, bson.M{
		"organizationId": organizationID,
		"metaKey":        metaKey,
		"type":           optionType,
	}).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, errors.ErrCodeStorage, "read option")
	}
	return rec.MetaValue, true, nil
}

// PostTypes implements store.PostTypeStore.
func (s *Store) PostTypes(ctx context.Context, organizationID string) ([]content.PostType, error) {
	cur, err := s.db.Collection(collPostTypes).Find(ctx, bson.M{"organizationId": organizationID})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorage, "list post types")
	}
	defer cur.Close(ctx)

	var out []content.PostType
	for cur.Next(ctx) {
		var rec postTypeRecord
		if err := cur.Decode(&rec); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeStorage, "decode post type")
		}
		out = append(out, *rec.toContent())
	}
	if err := cur.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorage, "iterate post types")
	}
	return out, nil
}

// PostTypeBySlug implements store.PostTypeStore.
func (s *Store) PostTypeBySlug(ctx context.Context, organizationID, slug string) (*content.PostType, error) {
	var rec postTypeRecord
	err := s.db.Collection(collPostTypes).FindOne(ctx, bson.M{
		"organizationId": organizationID,
		"slug":           slug,
	}).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorage, "read post type")
	}
	return rec.toContent(), nil
}

// TaxonomyBySlug implements store.TaxonomyStore.
func (s *Store) TaxonomyBySlug(ctx context.Context, organizationID, slug string) (*content.Taxonomy, error) {
	var rec taxonomyRecord
	err := s.db.Collection(collTaxonomies).FindOne(ctx, bson.M{
		"organizationId": organizationID,
		"slug":           slug,
	}).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorage, "read taxonomy")
	}
	return &content.Taxonomy{Slug: rec.Slug, Name: rec.Name, OrganizationID: rec.OrganizationID}, nil
}

// TermBySlug implements store.TaxonomyStore.
func (s *Store) TermBySlug(ctx context.Context, organizationID, taxonomySlug, termSlug string) (*content.Term, error) {
	var rec termRecord
	err := s.db.Collection(collTerms).FindOne(ctx, bson.M{
		"organizationId": organizationID,
		"taxonomySlug":   taxonomySlug,
		"slug":           termSlug,
	}).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorage, "read term")
	}
	return &content.Term{
		ID:             rec.ID,
		Slug:           rec.Slug,
		Name:           rec.Name,
		Description:    rec.Description,
		TaxonomySlug:   rec.TaxonomySlug,
		OrganizationID: rec.OrganizationID,
	}, nil
}

// Assignments implements store.TaxonomyStore.
func (s *Store) Assignments(ctx context.Context, organizationID, termID string) ([]content.TermAssignment, error) {
	cur, err := s.db.Collection(collAssignments).Find(ctx, bson.M{
		"organizationId": organizationID,
		"termId":         termID,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorage, "list term assignments")
	}
	defer cur.Close(ctx)

	var out []content.TermAssignment
	for cur.Next(ctx) {
		var rec assignmentRecord
		if err := cur.Decode(&rec); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeStorage, "decode term assignment")
		}
		out = append(out, content.TermAssignment{
			TermID:         rec.TermID,
			ObjectID:       rec.ObjectID,
			PostTypeSlug:   rec.PostTypeSlug,
			OrganizationID: rec.OrganizationID,
		})
	}
	if err := cur.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorage, "iterate term assignments")
	}
	return out, nil
}

// PostBySlug implements store.PostGetter.
func (s *Store) PostBySlug(ctx context.Context, organizationID, postTypeSlug, slug string) (*content.Post, error) {
	var rec postRecord
	err := s.db.Collection(collPosts).FindOne(ctx, bson.M{
		"organizationId": organizationID,
		"postTypeSlug":   postTypeSlug,
		"slug":           slug,
	}).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorage, "read post by slug")
	}
	return rec.toContent(), nil
}

// PostByID implements store.PostGetter.
func (s *Store) PostByID(ctx context.Context, organizationID, id string) (*content.Post, error) {
	var rec postRecord
	err := s.db.Collection(collPosts).FindOne(ctx, bson.M{
		"organizationId": organizationID,
		"_id":            id,
	}).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorage, "read post by id")
	}
	return rec.toContent(), nil
}

// PostMeta implements store.PostGetter. An absent record yields an empty map.
func (s *Store) PostMeta(ctx context.Context, _ string, postID string) (content.Meta, error) {
	var rec postMetaRecord
	err := s.db.Collection(collPostMeta).FindOne(ctx, bson.M{"postId": postID}).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return content.Meta{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorage, "read post meta")
	}
	meta := make(content.Meta, len(rec.Values))
	for k, v := range rec.Values {
		meta[k] = v
	}
	return meta, nil
}

// PublishedPosts implements store.PostLister, newest first.
func (s *Store) PublishedPosts(ctx context.Context, organizationID, postTypeSlug string, limit int) ([]content.Post, error) {
	findOpts := mopt.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		findOpts.SetLimit(int64(limit))
	}
	cur, err := s.db.Collection(collPosts).Find(ctx, bson.M{
		"organizationId": organizationID,
		"postTypeSlug":   postTypeSlug,
		"status":         content.StatusPublished,
	}, findOpts)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorage, "list published posts")
	}
	defer cur.Close(ctx)

	var out []content.Post
	for cur.Next(ctx) {
		var rec postRecord
		if err := cur.Decode(&rec); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeStorage, "decode post")
		}
		out = append(out, *rec.toContent())
	}
	if err := cur.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorage, "iterate posts")
	}
	return out, nil
}

// EntityBySlug implements store.EntityStore.
func (s *Store) EntityBySlug(ctx context.Context, organizationID, table, slug string) (*content.Entity, error) {
	var rec entityRecord
	err := s.db.Collection(collEntities).FindOne(ctx, bson.M{
		"organizationId": organizationID,
		"table":          table,
		"slug":           slug,
	}).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorage, "read entity by slug")
	}
	return rec.toContent(), nil
}

// EntityByID implements store.EntityStore.
func (s *Store) EntityByID(ctx context.Context, organizationID, table, id string) (*content.Entity, error) {
	var rec entityRecord
	err := s.db.Collection(collEntities).FindOne(ctx, bson.M{
		"organizationId": organizationID,
		"table":          table,
		"_id":            id,
	}).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorage, "read entity by id")
	}
	return rec.toContent(), nil
}

// Entities implements store.EntityStore, newest first.
func (s *Store) Entities(ctx context.Context, organizationID, table string, limit int) ([]content.Entity, error) {
	findOpts := mopt.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		findOpts.SetLimit(int64(limit))
	}
	cur, err := s.db.Collection(collEntities).Find(ctx, bson.M{
		"organizationId": organizationID,
		"table":          table,
	}, findOpts)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorage, "list entities")
	}
	defer cur.Close(ctx)

	var out []content.Entity
	for cur.Next(ctx) {
		var rec entityRecord
		if err := cur.Decode(&rec); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeStorage, "decode entity")
		}
		out = append(out, *rec.toContent())
	}
	if err := cur.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorage, "iterate entities")
	}
	return out, nil
}

// Ensure Store implements store.Queries.
var _ store.Queries = (*Store)(nil)
