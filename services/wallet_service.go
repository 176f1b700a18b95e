package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Dosada05/arena-admin/models"
	"github.com/Dosada05/arena-admin/repositories"
)

type WalletService interface {
	Balance(ctx context.Context, userID string) (int, error)
	// Credit adds funds directly and returns the new balance.
	Credit(ctx context.Context, input models.CreditInput) (int, error)

	RequestDeposit(ctx context.Context, userID string, input models.DepositInput) (*models.Deposit, error)
	PendingDeposits(ctx context.Context) ([]models.Deposit, error)
	ApproveDeposit(ctx context.Context, id string, decision models.DepositDecision) (*models.Deposit, error)
	RejectDeposit(ctx context.Context, id string, decision models.DepositDecision) (*models.Deposit, error)

	RequestWithdrawal(ctx context.Context, userID string, input models.WithdrawalInput) (*models.Withdrawal, error)
	PendingWithdrawals(ctx context.Context) ([]models.Withdrawal, error)
	ApproveWithdrawal(ctx context.Context, id string, decision models.WithdrawalDecision) (*models.Withdrawal, error)
	RejectWithdrawal(ctx context.Context, id string, decision models.WithdrawalDecision) (*models.Withdrawal, error)
}

type walletService struct {
	tx             repositories.Transactor
	walletRepo     repositories.WalletRepository
	depositRepo    repositories.DepositRepository
	withdrawalRepo repositories.WithdrawalRepository
	logger         *slog.Logger
	now            func() time.Time
}

func NewWalletService(
	tx repositories.Transactor,
	walletRepo repositories.WalletRepository,
	depositRepo repositories.DepositRepository,
	withdrawalRepo repositories.WithdrawalRepository,
	logger *slog.Logger,
) WalletService {
	return &walletService{
		tx:             tx,
		walletRepo:     walletRepo,
		depositRepo:    depositRepo,
		withdrawalRepo: withdrawalRepo,
		logger:         logger,
		now:            time.Now,
	}
}

func (s *walletService) Balance(ctx context.Context, userID string) (int, error) {
	balance, err := s.walletRepo.Balance(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to read balance: %w", err)
	}
	return balance, nil
}

func (s *walletService) Credit(ctx context.Context, input models.CreditInput) (int, error) {
	if strings.TrimSpace(input.UserID) == "" {
		return 0, ErrUserNotFound
	}
	if input.Amount <= 0 {
		return 0, ErrInvalidAmount
	}
	balance, err := s.walletRepo.Adjust(ctx, nil, input.UserID, input.Amount)
	if err != nil {
		return 0, handleRepositoryError(err)
	}
	s.logger.Info("wallet credited", slog.String("user_id", input.UserID), slog.Int("amount", input.Amount))
	return balance, nil
}

func (s *walletService) RequestDeposit(ctx context.Context, userID string, input models.DepositInput) (*models.Deposit, error) {
	if input.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	d := &models.Deposit{
		ID:            uuid.NewString(),
		UserID:        userID,
		Amount:        input.Amount,
		TransactionID: strings.TrimSpace(input.TransactionID),
		Status:        models.RequestPending,
	}
	if err := s.depositRepo.Create(ctx, d); err != nil {
		return nil, handleRepositoryError(err)
	}
	return d, nil
}

func (s *walletService) PendingDeposits(ctx context.Context) ([]models.Deposit, error) {
	deposits, err := s.depositRepo.ListByStatus(ctx, models.RequestPending)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending deposits: %w", err)
	}
	return deposits, nil
}

func (s *walletService) ApproveDeposit(ctx context.Context, id string, decision models.DepositDecision) (*models.Deposit, error) {
	return s.reviewDeposit(ctx, id, models.RequestApproved, decision.AdminNote)
}

func (s *walletService) RejectDeposit(ctx context.Context, id string, decision models.DepositDecision) (*models.Deposit, error) {
	return s.reviewDeposit(ctx, id, models.RequestRejected, decision.AdminNote)
}

// reviewDeposit settles a pending deposit. Approval credits the wallet in the
// same transaction that marks the request.
func (s *walletService) reviewDeposit(ctx context.Context, id string, status models.RequestStatus, note string) (*models.Deposit, error) {
	var reviewed *models.Deposit
	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		d, err := s.depositRepo.GetForUpdate(ctx, exec, id)
		if err != nil {
			return err
		}
		if d.Status != models.RequestPending {
			return ErrAlreadyReviewed
		}

		at := s.now().UTC()
		if err := s.depositRepo.Review(ctx, exec, id, status, note, at); err != nil {
			return err
		}
		if status == models.RequestApproved {
			if _, err := s.walletRepo.Adjust(ctx, exec, d.UserID, d.Amount); err != nil {
				return err
			}
		}

		d.Status = status
		d.AdminNote = note
		d.ReviewedAt = &at
		reviewed = d
		return nil
	})
	if err != nil {
		return nil, handleRepositoryError(err)
	}

	s.logger.Info("deposit reviewed",
		slog.String("deposit_id", id),
		slog.String("status", string(status)),
		slog.Int("amount", reviewed.Amount))
	return reviewed, nil
}

func (s *walletService) RequestWithdrawal(ctx context.Context, userID string, input models.WithdrawalInput) (*models.Withdrawal, error) {
	if input.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	balance, err := s.walletRepo.Balance(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to read balance: %w", err)
	}
	if balance < input.Amount {
		return nil, ErrInsufficientBalance
	}

	w := &models.Withdrawal{
		ID:         uuid.NewString(),
		UserID:     userID,
		Amount:     input.Amount,
		Method:     strings.TrimSpace(input.Method),
		AccountRef: strings.TrimSpace(input.AccountRef),
		Status:     models.RequestPending,
	}
	if err := s.withdrawalRepo.Create(ctx, w); err != nil {
		return nil, handleRepositoryError(err)
	}
	return w, nil
}

func (s *walletService) PendingWithdrawals(ctx context.Context) ([]models.Withdrawal, error) {
	withdrawals, err := s.withdrawalRepo.ListByStatus(ctx, models.RequestPending)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending withdrawals: %w", err)
	}
	return withdrawals, nil
}

func (s *walletService) ApproveWithdrawal(ctx context.Context, id string, decision models.WithdrawalDecision) (*models.Withdrawal, error) {
	return s.reviewWithdrawal(ctx, id, models.RequestApproved, decision)
}

func (s *walletService) RejectWithdrawal(ctx context.Context, id string, decision models.WithdrawalDecision) (*models.Withdrawal, error) {
	return s.reviewWithdrawal(ctx, id, models.RequestRejected, decision)
}

// reviewWithdrawal settles a pending withdrawal. Approval debits the wallet;
// a balance that no longer covers the amount rolls the review back.
func (s *walletService) reviewWithdrawal(ctx context.Context, id string, status models.RequestStatus, decision models.WithdrawalDecision) (*models.Withdrawal, error) {
	var reviewed *models.Withdrawal
	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		w, err := s.withdrawalRepo.GetForUpdate(ctx, exec, id)
		if err != nil {
			return err
		}
		if w.Status != models.RequestPending {
			return ErrAlreadyReviewed
		}

		at := s.now().UTC()
		w.Status = status
		w.AdminNotes = decision.AdminNotes
		w.TransactionID = strings.TrimSpace(decision.TransactionID)
		w.ReviewedAt = &at
		if err := s.withdrawalRepo.Review(ctx, exec, w); err != nil {
			return err
		}
		if status == models.RequestApproved {
			if _, err := s.walletRepo.Adjust(ctx, exec, w.UserID, -w.Amount); err != nil {
				return err
			}
		}
		reviewed = w
		return nil
	})
	if err != nil {
		return nil, handleRepositoryError(err)
	}

	s.logger.Info("withdrawal reviewed",
		slog.String("withdrawal_id", id),
		slog.String("status", string(status)),
		slog.Int("amount", reviewed.Amount))
	return reviewed, nil
}
