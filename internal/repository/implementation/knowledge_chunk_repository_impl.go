package implementation

import (
	"context"
	"math"
	"sort"

	"ai-assistant-be/internal/constant"
	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/mapper"
	"ai-assistant-be/internal/model"
	"ai-assistant-be/internal/repository/contract"
	"ai-assistant-be/internal/repository/specification"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// KnowledgeChunkRepositoryImpl is the embedded vector backend: embeddings are
// stored as JSON rows and similarity is computed in-process over the loaded
// set. Works on sqlite and on postgres without the pgvector extension; fine
// for the collection sizes a personal assistant accumulates.
type KnowledgeChunkRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChunkMapper
}

func NewKnowledgeChunkRepository(db *gorm.DB) contract.ChunkRepository {
	return &KnowledgeChunkRepositoryImpl{
		db:     db,
		mapper: mapper.NewChunkMapper(),
	}
}

func (r *KnowledgeChunkRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *KnowledgeChunkRepositoryImpl) UpsertBulk(ctx context.Context, chunks []*entity.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	rows := make([]*model.KnowledgeChunk, len(chunks))
	for i, c := range chunks {
		rows[i] = r.mapper.ToModel(c)
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(rows).Error
}

func (r *KnowledgeChunkRepositoryImpl) Search(ctx context.Context, embedding []float32, limit int, threshold float64) ([]*entity.QueryResult, error) {
	if limit <= 0 {
		limit = constant.DefaultQueryTopK
	}

	var rows []*model.KnowledgeChunk
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}

	results := make([]*entity.QueryResult, 0, limit)
	for _, row := range rows {
		chunk := r.mapper.ToEntity(row)
		sim := cosineSimilarity(embedding, chunk.Embedding)
		if sim < threshold {
			continue
		}
		results = append(results, &entity.QueryResult{
			Content:    chunk.Text,
			Similarity: sim,
			Distance:   1 - sim,
			Metadata:   r.mapper.ResultMetadata(chunk),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func (r *KnowledgeChunkRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.KnowledgeChunk{}).Count(&count).Error
	return count, err
}

func (r *KnowledgeChunkRepositoryImpl) Clear(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&model.KnowledgeChunk{}).Error
}

func (r *KnowledgeChunkRepositoryImpl) ExportAll(ctx context.Context) ([]*entity.Chunk, error) {
	var rows []*model.KnowledgeChunk
	query := r.applySpecifications(
		r.db.WithContext(ctx),
		specification.OrderBy{Field: "source"},
		specification.OrderBy{Field: "chunk_index"},
	)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	chunks := make([]*entity.Chunk, len(rows))
	for i, row := range rows {
		chunks[i] = r.mapper.ToEntity(row)
	}
	return chunks, nil
}

// cosineSimilarity is zero for mismatched or zero-magnitude vectors rather
// than an error; those chunks simply never clear the threshold.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
