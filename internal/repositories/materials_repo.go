package repositories

import (
	"context"

	"stockbook/internal/models"
)

type MaterialRepository interface {
	Create(ctx context.Context, material *models.Material) error
	GetByID(ctx context.Context, id int64) (*models.Material, error)
	Update(ctx context.Context, material *models.Material) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, limit, offset int) ([]*models.Material, error)
}

type materialRepo struct {
	db Database
}

func NewMaterialRepo(db Database) MaterialRepository {
	return &materialRepo{db: db}
}

func (r *materialRepo) Create(ctx context.Context, material *models.Material) error {
	query := `
		INSERT INTO materials (name, unit, category, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRow(ctx, query, material.Name, material.Unit, material.Category, material.Description).
		Scan(&material.ID, &material.CreatedAt, &material.UpdatedAt)
}

func (r *materialRepo) GetByID(ctx context.Context, id int64) (*models.Material, error) {
	material := &models.Material{}
	query := `
		SELECT id, name, unit, category, description, created_at, updated_at
		FROM materials
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&material.ID, &material.Name, &material.Unit, &material.Category, &material.Description, &material.CreatedAt, &material.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return material, nil
}

func (r *materialRepo) Update(ctx context.Context, material *models.Material) error {
	query := `
		UPDATE materials
		SET name = $1, unit = $2, category = $3, description = $4, updated_at = NOW()
		WHERE id = $5
	`
	_, err := r.db.Exec(ctx, query, material.Name, material.Unit, material.Category, material.Description, material.ID)
	return err
}

func (r *materialRepo) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM materials WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *materialRepo) List(ctx context.Context, limit, offset int) ([]*models.Material, error) {
	query := `
		SELECT id, name, unit, category, description, created_at, updated_at
		FROM materials
		ORDER BY name
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var materials []*models.Material
	for rows.Next() {
		material := &models.Material{}
		if err := rows.Scan(&material.ID, &material.Name, &material.Unit, &material.Category, &material.Description, &material.CreatedAt, &material.UpdatedAt); err != nil {
			return nil, err
		}
		materials = append(materials, material)
	}
	return materials, rows.Err()
}
