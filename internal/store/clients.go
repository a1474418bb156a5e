package store

import (
	"gorm.io/gorm"

	"github.com/plowline/backoffice/internal/models"
)

func (s *Store) CreateClient(c *models.Client) error {
	return s.db.Create(c).Error
}

func (s *Store) GetClient(id uint) (*models.Client, error) {
	var c models.Client
	if err := s.db.First(&c, id).Error; err != nil {
		return nil, asStoreErr(err)
	}
	return &c, nil
}

func (s *Store) ListClients() ([]models.Client, error) {
	var cs []models.Client
	if err := s.db.Order("id").Find(&cs).Error; err != nil {
		return nil, err
	}
	return cs, nil
}

func (s *Store) UpdateClient(c *models.Client) error {
	res := s.db.Model(&models.Client{}).Where("id = ?", c.ID).Updates(map[string]any{
		"name":           c.Name,
		"business_name":  c.BusinessName,
		"street_address": c.StreetAddress,
		"city":           c.City,
		"state":          c.State,
		"zip_code":       c.ZipCode,
		"email":          c.Email,
		"phone":          c.Phone,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteClient removes a client and cascades deletion of its quote profile.
// Deleting an id that does not exist returns ErrNotFound.
func (s *Store) DeleteClient(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Client{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Where("client_id = ?", id).Delete(&models.QuoteProfile{}).Error
	})
}
