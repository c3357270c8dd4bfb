package services

import (
	"errors"
	"time"

	"github.com/paraiso360/paraiso360/internal/models"

	"gorm.io/gorm"
)

var (
	ErrClientNotFound   = errors.New("client_not_found")
	ErrPlotNotFound     = errors.New("plot_not_found")
	ErrPlotNotAvailable = errors.New("plot_not_available")
)

// AssignmentService links a client to a currently available plot. Both records
// change together or not at all.
type AssignmentService struct{ DB *gorm.DB }

func NewAssignmentService(db *gorm.DB) *AssignmentService { return &AssignmentService{DB: db} }

// AssignPlot reserves plotID for clientID: the plot becomes Reserved with the
// client as owner and a reservation date of now, and the plot id is appended to
// the client's associated list. Both writes run in one transaction so a failure
// cannot leave the owner link half-applied. Re-assigning a plot the client
// already owns is a no-op, not an error.
func (s *AssignmentService) AssignPlot(clientID, plotID string) (*models.Plot, *models.Client, error) {
	var plot models.Plot
	var client models.Client

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&client, "id = ?", clientID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrClientNotFound
			}
			return err
		}
		if err := tx.First(&plot, "id = ?", plotID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPlotNotFound
			}
			return err
		}

		// Idempotent guard: the plot is already this client's.
		if plot.OwnerClientID != nil && *plot.OwnerClientID == clientID && client.OwnsPlot(plotID) {
			return nil
		}
		if plot.Status != models.StatusAvailable || plot.OwnerClientID != nil {
			return ErrPlotNotAvailable
		}

		now := time.Now()
		plot.Status = models.StatusReserved
		plot.OwnerClientID = &clientID
		plot.ReservationDate = &now
		if err := tx.Save(&plot).Error; err != nil {
			return err
		}

		if !client.OwnsPlot(plotID) {
			client.AssociatedPlotIDs = append(client.AssociatedPlotIDs, plotID)
		}
		return tx.Save(&client).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return &plot, &client, nil
}

// ReleasePlot reverts a plot to Available and removes it from its owner's
// associated list, keeping the bidirectional link consistent. Used when a
// reservation falls through.
func (s *AssignmentService) ReleasePlot(plotID string) (*models.Plot, error) {
	var plot models.Plot

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&plot, "id = ?", plotID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPlotNotFound
			}
			return err
		}
		if plot.OwnerClientID != nil {
			var client models.Client
			if err := tx.First(&client, "id = ?", *plot.OwnerClientID).Error; err == nil {
				kept := client.AssociatedPlotIDs[:0]
				for _, id := range client.AssociatedPlotIDs {
					if id != plotID {
						kept = append(kept, id)
					}
				}
				client.AssociatedPlotIDs = kept
				if err := tx.Save(&client).Error; err != nil {
					return err
				}
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}
		plot.Status = models.StatusAvailable
		plot.OwnerClientID = nil
		plot.ReservationDate = nil
		return tx.Save(&plot).Error
	})
	if err != nil {
		return nil, err
	}
	return &plot, nil
}
