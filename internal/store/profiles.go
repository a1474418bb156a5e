package store

import (
	"gorm.io/gorm/clause"

	"github.com/plowline/backoffice/internal/models"
)

// SaveProfile creates or replaces the client's quote profile.
func (s *Store) SaveProfile(p *models.QuoteProfile) error {
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "client_id"}},
		UpdateAll: true,
	}).Create(p).Error
}

func (s *Store) GetProfile(clientID uint) (*models.QuoteProfile, error) {
	var p models.QuoteProfile
	if err := s.db.First(&p, "client_id = ?", clientID).Error; err != nil {
		return nil, asStoreErr(err)
	}
	return &p, nil
}
