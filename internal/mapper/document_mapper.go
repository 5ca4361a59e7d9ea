package mapper

import (
	"document-qa-be/internal/entity"
	"document-qa-be/internal/model"

	"gorm.io/datatypes"
)

type DocumentMapper struct{}

func NewDocumentMapper() *DocumentMapper {
	return &DocumentMapper{}
}

func (m *DocumentMapper) ToEntity(d *model.Document) *entity.Document {
	if d == nil {
		return nil
	}

	var metadata map[string]interface{}
	if d.Metadata != nil {
		metadata = map[string]interface{}(d.Metadata)
	}

	return &entity.Document{
		Id:          d.Id,
		Url:         d.Url,
		StorageKey:  d.StorageKey,
		Filename:    d.Filename,
		Text:        d.Text,
		ContentType: d.ContentType,
		SizeBytes:   d.SizeBytes,
		Metadata:    metadata,
		CreatedAt:   d.CreatedAt,
	}
}

func (m *DocumentMapper) ToModel(d *entity.Document) *model.Document {
	if d == nil {
		return nil
	}

	var metadata datatypes.JSONMap
	if d.Metadata != nil {
		metadata = datatypes.JSONMap(d.Metadata)
	}

	return &model.Document{
		Id:          d.Id,
		Url:         d.Url,
		StorageKey:  d.StorageKey,
		Filename:    d.Filename,
		Text:        d.Text,
		ContentType: d.ContentType,
		SizeBytes:   d.SizeBytes,
		Metadata:    metadata,
		CreatedAt:   d.CreatedAt,
	}
}

func (m *DocumentMapper) ToEntities(documents []*model.Document) []*entity.Document {
	entities := make([]*entity.Document, len(documents))
	for i, d := range documents {
		entities[i] = m.ToEntity(d)
	}
	return entities
}
