package store

import (
	"gorm.io/datatypes"

	"github.com/plowline/backoffice/internal/models"
)

func (s *Store) GetSetting(id string) (*models.AppSetting, error) {
	var set models.AppSetting
	if err := s.db.First(&set, "id = ?", id).Error; err != nil {
		return nil, asStoreErr(err)
	}
	return &set, nil
}

func (s *Store) ListSettings() ([]models.AppSetting, error) {
	var sets []models.AppSetting
	if err := s.db.Order("id").Find(&sets).Error; err != nil {
		return nil, err
	}
	return sets, nil
}

func (s *Store) UpdateSettingValue(id string, value datatypes.JSON) error {
	res := s.db.Model(&models.AppSetting{}).Where("id = ?", id).Update("setting_value", value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteSetting(id string) error {
	res := s.db.Delete(&models.AppSetting{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SeedSetting inserts a setting only if the id is not present yet.
func (s *Store) SeedSetting(set models.AppSetting) error {
	var existing models.AppSetting
	err := s.db.First(&existing, "id = ?", set.ID).Error
	if err == nil {
		return nil
	}
	if asStoreErr(err) != ErrNotFound {
		return err
	}
	return s.db.Create(&set).Error
}
