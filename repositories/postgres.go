package repositories

import (
	"errors"

	models "Rememerme/models/postgres"

	"gorm.io/gorm"
)

/*
POSTGRES IMPL
*/

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *GormStore) CreateGame(game *models.Game) error {
	return s.db.Create(game).Error
}

func (s *GormStore) GetGame(id string) (*models.Game, error) {
	var game models.Game
	if err := s.db.Where("id = ?", id).First(&game).Error; err != nil {
		return nil, translate(err)
	}
	return &game, nil
}

func (s *GormStore) CreateMember(member *models.GameMember) error {
	return s.db.Create(member).Error
}

func (s *GormStore) SaveMember(member *models.GameMember) error {
	return s.db.Save(member).Error
}

func (s *GormStore) AddScore(memberID string, delta int) error {
	return s.db.Model(&models.GameMember{}).
		Where("id = ?", memberID).
		Update("score", gorm.Expr("score + ?", delta)).Error
}

func (s *GormStore) MembersByGame(gameID string) ([]models.GameMember, error) {
	var members []models.GameMember
	err := s.db.Where("game_id = ?", gameID).Order("created_at").Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

func (s *GormStore) MembersByUser(userID string) ([]models.GameMember, error) {
	var members []models.GameMember
	err := s.db.Where("user_id = ?", userID).Order("created_at").Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

func (s *GormStore) MemberByGameAndUser(gameID, userID string) (*models.GameMember, error) {
	var member models.GameMember
	err := s.db.Where("game_id = ? AND user_id = ?", gameID, userID).First(&member).Error
	if err != nil {
		return nil, translate(err)
	}
	return &member, nil
}

func (s *GormStore) CreateRound(round *models.Round) error {
	return s.db.Create(round).Error
}

func (s *GormStore) GetRound(id string) (*models.Round, error) {
	var round models.Round
	if err := s.db.Where("id = ?", id).First(&round).Error; err != nil {
		return nil, translate(err)
	}
	return &round, nil
}

func (s *GormStore) StartGameRound(gameID, deckID, roundID string) (bool, error) {
	res := s.db.Model(&models.Game{}).
		Where("id = ? AND current_round_id IS NULL", gameID).
		Updates(map[string]interface{}{
			"deck_id":          deckID,
			"current_round_id": roundID,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *GormStore) ResolveRound(roundID, selectionID string) (bool, error) {
	res := s.db.Model(&models.Round{}).
		Where("id = ? AND selection_id IS NULL", roundID).
		Update("selection_id", selectionID)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *GormStore) AdvanceCurrentRound(gameID, fromRoundID, toRoundID string) (bool, error) {
	res := s.db.Model(&models.Game{}).
		Where("id = ? AND current_round_id = ?", gameID, fromRoundID).
		Update("current_round_id", toRoundID)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *GormStore) CreateNomination(nomination *models.Nomination) error {
	return s.db.Create(nomination).Error
}

func (s *GormStore) GetNomination(id string) (*models.Nomination, error) {
	var nomination models.Nomination
	if err := s.db.Where("id = ?", id).First(&nomination).Error; err != nil {
		return nil, translate(err)
	}
	return &nomination, nil
}

func (s *GormStore) NominationsByRound(roundID string) ([]models.Nomination, error) {
	var nominations []models.Nomination
	err := s.db.Where("round_id = ?", roundID).Order("created_at").Find(&nominations).Error
	if err != nil {
		return nil, err
	}
	return nominations, nil
}

func (s *GormStore) PhraseCardsByDeck(deckID string) ([]models.PhraseCard, error) {
	var cards []models.PhraseCard
	err := s.db.Where("deck_id = ?", deckID).Order("id").Find(&cards).Error
	if err != nil {
		return nil, err
	}
	return cards, nil
}

func (s *GormStore) GetNominationCard(id string) (*models.NominationCard, error) {
	var card models.NominationCard
	if err := s.db.Where("id = ?", id).First(&card).Error; err != nil {
		return nil, translate(err)
	}
	return &card, nil
}

func (s *GormStore) GetUser(id string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *GormStore) Transaction(fn func(Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewGormStore(tx))
	})
}
