// Package qdrant provides a Qdrant similarity index driver over gRPC.
//
// Qdrant only accepts UUIDs or unsigned integers as point IDs, so chunk
// identifiers are mapped to deterministic UUIDv5 values and the original
// identifier is kept in the point payload.
package qdrant

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	qdrantgo "github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"

	"github.com/inkstoneco/inkstone/pkg/vector"
)

const (
	// DefaultCollectionName is the default collection used for style references.
	DefaultCollectionName = "style_references"

	// DefaultPort is Qdrant's gRPC port.
	DefaultPort = 6334

	// payloadChunkID carries the original chunk identifier alongside the
	// UUID point ID.
	payloadChunkID = "chunk_id"

	// payloadText carries the chunk body.
	payloadText = "text"

	// scrollLimit bounds how many points a single Scroll call may return.
	scrollLimit = 10000
)

// Driver implements vector.Driver using the Qdrant gRPC client.
type Driver struct {
	client         *qdrantgo.Client
	collectionName string
	dimensions     uint64
	logger         *zap.Logger
}

// Config holds configuration for the Qdrant driver.
type Config struct {
	// Target is the Qdrant address, either "host:port" or a URL whose host
	// and port are used. Port defaults to DefaultPort.
	Target string

	// CollectionName is the name of the collection to use.
	// Defaults to DefaultCollectionName if empty.
	CollectionName string

	// Dimensions is the embedding vector width used when the collection
	// has to be created.
	Dimensions uint64
}

// NewDriver creates a new Qdrant driver and ensures the collection exists.
func NewDriver(c Config, logger *zap.Logger) (*Driver, error) {
	if c.Target == "" {
		return nil, fmt.Errorf("qdrant target is required")
	}
	if c.Dimensions == 0 {
		return nil, fmt.Errorf("qdrant embedding dimensions are required")
	}

	collectionName := c.CollectionName
	if collectionName == "" {
		collectionName = DefaultCollectionName
	}

	host, port, err := splitTarget(c.Target)
	if err != nil {
		return nil, fmt.Errorf("parsing qdrant target %q: %w", c.Target, err)
	}

	client, err := qdrantgo.NewClient(&qdrantgo.Config{
		Host: host,
		Port: port,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: creating qdrant client: %v", vector.ErrConnection, err)
	}

	d := &Driver{
		client:         client,
		collectionName: collectionName,
		dimensions:     c.Dimensions,
		logger:         logger,
	}

	if err := d.ensureCollection(context.Background()); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: ensuring collection %q: %v", vector.ErrConnection, collectionName, err)
	}

	logger.Info("connected to Qdrant",
		zap.String("target", c.Target),
		zap.String("collection", collectionName),
	)

	return d, nil
}

func (d *Driver) ensureCollection(ctx context.Context) error {
	exists, err := d.client.CollectionExists(ctx, d.collectionName)
	if err != nil {
		return fmt.Errorf("checking collection: %w", err)
	}
	if exists {
		return nil
	}

	err = d.client.CreateCollection(ctx, &qdrantgo.CreateCollection{
		CollectionName: d.collectionName,
		VectorsConfig: qdrantgo.NewVectorsConfig(&qdrantgo.VectorParams{
			Size:     d.dimensions,
			Distance: qdrantgo.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("creating collection: %w", err)
	}
	return nil
}

// Upsert stores documents with their embeddings, text, and metadata.
func (d *Driver) Upsert(ctx context.Context, docs []vector.Document) error {
	if len(docs) == 0 {
		return nil
	}

	points := make([]*qdrantgo.PointStruct, len(docs))
	for i, doc := range docs {
		payload := vector.MetaToMap(doc.Meta)
		payload[payloadChunkID] = doc.ID
		payload[payloadText] = doc.Text

		points[i] = &qdrantgo.PointStruct{
			Id:      qdrantgo.NewID(PointID(doc.ID)),
			Vectors: qdrantgo.NewVectors(doc.Embedding...),
			Payload: qdrantgo.NewValueMap(payload),
		}
	}

	_, err := d.client.Upsert(ctx, &qdrantgo.UpsertPoints{
		CollectionName: d.collectionName,
		Points:         points,
		Wait:           qdrantgo.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("%w: upserting points: %v", vector.ErrConnection, err)
	}

	d.logger.Debug("upserted points to qdrant",
		zap.Int("count", len(docs)),
	)

	return nil
}

// Query finds the topK most similar documents to the given embedding,
// restricted to documents matching where. Qdrant scores cosine similarity
// descending, so distance is reported as 1 - score.
func (d *Driver) Query(ctx context.Context, embedding []float32, topK int, where vector.Where) ([]vector.Match, error) {
	if topK <= 0 {
		topK = 10
	}

	points, err := d.client.Query(ctx, &qdrantgo.QueryPoints{
		CollectionName: d.collectionName,
		Query:          qdrantgo.NewQuery(embedding...),
		Limit:          qdrantgo.PtrOf(uint64(topK)),
		Filter:         filterClause(where),
		WithPayload:    qdrantgo.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: querying points: %v", vector.ErrConnection, err)
	}

	matches := make([]vector.Match, 0, len(points))
	for _, p := range points {
		doc := documentFromPayload(p.GetPayload())
		matches = append(matches, vector.Match{
			Document: doc,
			Distance: 1 - p.GetScore(),
		})
	}

	d.logger.Debug("queried qdrant",
		zap.Int("results", len(matches)),
	)

	return matches, nil
}

// IDs returns the chunk identifiers of all documents matching where.
func (d *Driver) IDs(ctx context.Context, where vector.Where) ([]string, error) {
	points, err := d.client.Scroll(ctx, &qdrantgo.ScrollPoints{
		CollectionName: d.collectionName,
		Filter:         filterClause(where),
		Limit:          qdrantgo.PtrOf(uint32(scrollLimit)),
		WithPayload:    qdrantgo.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: scrolling points: %v", vector.ErrConnection, err)
	}

	ids := make([]string, 0, len(points))
	for _, p := range points {
		if v, ok := p.GetPayload()[payloadChunkID]; ok {
			if id := v.GetStringValue(); id != "" {
				ids = append(ids, id)
			}
		}
	}
	return ids, nil
}

// Delete removes documents by their chunk identifiers.
func (d *Driver) Delete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	pointIDs := make([]*qdrantgo.PointId, len(ids))
	for i, id := range ids {
		pointIDs[i] = qdrantgo.NewID(PointID(id))
	}

	_, err := d.client.Delete(ctx, &qdrantgo.DeletePoints{
		CollectionName: d.collectionName,
		Points:         qdrantgo.NewPointsSelector(pointIDs...),
		Wait:           qdrantgo.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("%w: deleting points: %v", vector.ErrConnection, err)
	}

	d.logger.Debug("deleted points from qdrant",
		zap.Int("count", len(ids)),
	)

	return nil
}

// Count returns the number of stored documents.
func (d *Driver) Count(ctx context.Context) (int, error) {
	count, err := d.client.Count(ctx, &qdrantgo.CountPoints{
		CollectionName: d.collectionName,
		Exact:          qdrantgo.PtrOf(true),
	})
	if err != nil {
		return 0, fmt.Errorf("%w: counting points: %v", vector.ErrConnection, err)
	}
	return int(count), nil
}

// Reset drops the collection and recreates it empty.
func (d *Driver) Reset(ctx context.Context) error {
	if err := d.client.DeleteCollection(ctx, d.collectionName); err != nil {
		return fmt.Errorf("%w: deleting collection: %v", vector.ErrConnection, err)
	}
	if err := d.ensureCollection(ctx); err != nil {
		return fmt.Errorf("recreating collection %q: %w", d.collectionName, err)
	}

	d.logger.Info("reset qdrant collection",
		zap.String("collection", d.collectionName),
	)

	return nil
}

// Close closes the underlying gRPC connection.
func (d *Driver) Close() error {
	return d.client.Close()
}

// PointID maps a chunk identifier to a deterministic UUIDv5 string. Qdrant
// only accepts UUID or integer point identifiers, so chunk IDs are hashed
// into UUID space; the mapping is stable so deletes can address points
// without a lookup.
func PointID(chunkID string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(chunkID)).String()
}

// documentFromPayload rebuilds a Document from a point payload.
func documentFromPayload(payload map[string]*qdrantgo.Value) vector.Document {
	raw := make(map[string]any, len(payload))
	for k, v := range payload {
		if decoded, ok := payloadValue(v); ok {
			raw[k] = decoded
		}
	}

	doc := vector.Document{Meta: vector.MetaFromMap(raw)}
	if id, ok := raw[payloadChunkID].(string); ok {
		doc.ID = id
	}
	if text, ok := raw[payloadText].(string); ok {
		doc.Text = text
	}
	return doc
}

// payloadValue decodes a payload value by its wire kind, so an empty string
// stays a string rather than falling through to integer zero. Kinds the
// metadata schema never produces are dropped.
func payloadValue(v *qdrantgo.Value) (any, bool) {
	switch v.GetKind().(type) {
	case *qdrantgo.Value_StringValue:
		return v.GetStringValue(), true
	case *qdrantgo.Value_IntegerValue:
		return int(v.GetIntegerValue()), true
	case *qdrantgo.Value_DoubleValue:
		return v.GetDoubleValue(), true
	default:
		return nil, false
	}
}

// filterClause translates equality filters into a Qdrant must-match filter.
func filterClause(where vector.Where) *qdrantgo.Filter {
	if len(where) == 0 {
		return nil
	}

	must := make([]*qdrantgo.Condition, 0, len(where))
	for k, v := range where {
		must = append(must, qdrantgo.NewMatch(k, v))
	}
	return &qdrantgo.Filter{Must: must}
}

// splitTarget extracts host and port from either "host:port" or a URL.
func splitTarget(target string) (string, int, error) {
	hostport := target
	if u, err := url.Parse(target); err == nil && u.Host != "" {
		hostport = u.Host
	}

	host, portStr, err := net.SplitHostPort(hostport)
	if err != nil {
		// No port given, use the gRPC default.
		return hostport, DefaultPort, nil
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid port %q", portStr)
	}
	return host, port, nil
}
