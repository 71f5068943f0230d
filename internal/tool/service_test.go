package tool_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/redixstudio/atelier/internal/tool"
)

func TestService_Create(t *testing.T) {
	type testCase struct {
		name      string
		params    tool.CreateParams
		setupMock func(m *tool.MockRepository)
		wantErr   bool
	}

	tests := []testCase{
		{
			name:   "Success",
			params: tool.CreateParams{Name: "Camera A7", PurchasePrice: 2400},
			setupMock: func(m *tool.MockRepository) {
				m.EXPECT().
					CreateTool(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, tl *tool.Tool) error {
						tl.ID = uuid.New()
						return nil
					})
			},
		},
		{
			name:   "RepoError",
			params: tool.CreateParams{Name: "Drone"},
			setupMock: func(m *tool.MockRepository) {
				m.EXPECT().
					CreateTool(gomock.Any(), gomock.Any()).
					Return(errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := tool.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := tool.NewService(repo)
			got, err := svc.Create(context.Background(), tt.params)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)

				return
			}

			assert.NoError(t, err)
			assert.NotNil(t, got)
			assert.NotEmpty(t, got.ID)
			assert.Zero(t, got.RevenueCounter)
		})
	}
}

func TestService_Get_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := tool.NewMockRepository(ctrl)
	id := uuid.New()
	repo.EXPECT().GetTool(gomock.Any(), id).Return(nil, tool.ErrNotFound)

	svc := tool.NewService(repo)
	_, err := svc.Get(context.Background(), id)
	assert.ErrorIs(t, err, tool.ErrNotFound)
}
