package implementation

import (
	"context"

	"ai-assistant-be/internal/constant"
	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/mapper"
	"ai-assistant-be/internal/model"
	"ai-assistant-be/internal/repository/contract"
	"ai-assistant-be/internal/repository/specification"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// KnowledgeChunkVectorRepositoryImpl is the pgvector backend: ranking and
// threshold filtering run inside postgres over the vector column.
type KnowledgeChunkVectorRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChunkMapper
}

func NewKnowledgeChunkVectorRepository(db *gorm.DB) contract.ChunkRepository {
	return &KnowledgeChunkVectorRepositoryImpl{
		db:     db,
		mapper: mapper.NewChunkMapper(),
	}
}

func (r *KnowledgeChunkVectorRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *KnowledgeChunkVectorRepositoryImpl) UpsertBulk(ctx context.Context, chunks []*entity.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	rows := make([]*model.KnowledgeChunkVector, len(chunks))
	for i, c := range chunks {
		rows[i] = r.mapper.ToVectorModel(c)
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(rows).Error
}

// scoredChunkRow carries the stored row plus its computed similarity.
type scoredChunkRow struct {
	model.KnowledgeChunkVector
	Similarity float64
}

func (r *KnowledgeChunkVectorRepositoryImpl) Search(ctx context.Context, embedding []float32, limit int, threshold float64) ([]*entity.QueryResult, error) {
	if limit <= 0 {
		limit = constant.DefaultQueryTopK
	}

	// Cosine distance in pgvector is 1 - cosine_similarity, so
	// 1 - (embedding <=> query) recovers the similarity.
	queryVector := pgvector.NewVector(embedding)

	var rows []scoredChunkRow
	err := r.db.WithContext(ctx).
		Table("knowledge_chunks").
		Select("knowledge_chunks.*, 1 - (embedding <=> ?) AS similarity", queryVector).
		Where("1 - (embedding <=> ?) >= ?", queryVector, threshold).
		Order("similarity DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	results := make([]*entity.QueryResult, len(rows))
	for i, row := range rows {
		chunk := r.mapper.VectorToEntity(&row.KnowledgeChunkVector)
		results[i] = &entity.QueryResult{
			Content:    chunk.Text,
			Similarity: row.Similarity,
			Distance:   1 - row.Similarity,
			Metadata:   r.mapper.ResultMetadata(chunk),
		}
	}
	return results, nil
}

func (r *KnowledgeChunkVectorRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.KnowledgeChunkVector{}).Count(&count).Error
	return count, err
}

func (r *KnowledgeChunkVectorRepositoryImpl) Clear(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&model.KnowledgeChunkVector{}).Error
}

func (r *KnowledgeChunkVectorRepositoryImpl) ExportAll(ctx context.Context) ([]*entity.Chunk, error) {
	var rows []*model.KnowledgeChunkVector
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
		chunks[i] = r.mapper.VectorToEntity(row)
	}
	return chunks, nil
}
