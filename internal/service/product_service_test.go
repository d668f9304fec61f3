package service

import (
	"context"
	"testing"

	"perk-store/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductService_List_BackupSubstitution(t *testing.T) {
	backup := testProduct(5, 90.00)
	backup.Name = "Backup Bottle"

	depleted := testProduct(0, 100.00)
	depleted.Name = "Primary Bottle"
	depleted.BackupProductID = &backup.ID

	inStock := testProduct(3, 50.00)
	inStock.Name = "Notebook"

	tests := []struct {
		name      string
		listed    []model.Product
		backup    *model.Product
		wantNames []string
	}{
		{
			name:      "Depleted product replaced by its backup",
			listed:    []model.Product{*depleted, *inStock},
			backup:    backup,
			wantNames: []string{"Backup Bottle", "Notebook"},
		},
		{
			name:   "Backup itself out of stock keeps the original",
			listed: []model.Product{*depleted},
			backup: func() *model.Product {
				b := *backup
				b.Stock = 0
				return &b
			}(),
			wantNames: []string{"Primary Bottle"},
		},
		{
			name:   "Inactive backup keeps the original",
			listed: []model.Product{*depleted},
			backup: func() *model.Product {
				b := *backup
				b.Active = false
				return &b
			}(),
			wantNames: []string{"Primary Bottle"},
		},
		{
			name:      "Missing backup keeps the original",
			listed:    []model.Product{*depleted},
			backup:    nil,
			wantNames: []string{"Primary Bottle"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockProductRepository)
			svc := NewProductService(mockRepo, zerolog.Nop())
			ctx := context.Background()

			mockRepo.On("List", ctx, DefaultPageSize, 0).Return(tt.listed, nil)
			mockRepo.On("GetByID", ctx, backup.ID).Return(tt.backup, nil).Maybe()

			products, err := svc.List(ctx, 0, 0)

			require.NoError(t, err)
			require.Len(t, products, len(tt.wantNames))
			for i, want := range tt.wantNames {
				assert.Equal(t, want, products[i].Name)
			}
		})
	}
}

func TestProductService_List_InStockProductNotSubstituted(t *testing.T) {
	mockRepo := new(MockProductRepository)
	svc := NewProductService(mockRepo, zerolog.Nop())
	ctx := context.Background()

	backupID := uuid.New()
	product := testProduct(2, 100.00)
	product.BackupProductID = &backupID

	mockRepo.On("List", ctx, 10, 20).Return([]model.Product{*product}, nil)

	products, err := svc.List(ctx, 10, 20)

	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, product.ID, products[0].ID)
	mockRepo.AssertNotCalled(t, "GetByID", ctx, backupID)
}

func TestProductService_GetByID(t *testing.T) {
	mockRepo := new(MockProductRepository)
	svc := NewProductService(mockRepo, zerolog.Nop())
	ctx := context.Background()

	product := testProduct(4, 75.00)
	mockRepo.On("GetByID", ctx, product.ID).Return(product, nil)

	got, err := svc.GetByID(ctx, product.ID)

	require.NoError(t, err)
	assert.Equal(t, product, got)
}
