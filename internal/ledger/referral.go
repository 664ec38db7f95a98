package ledger

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/01moynul/resellerhub-golang/internal/models"
)

// UniqueReferralCode generates an 8-character code not yet held by any
// reseller, retrying on the (unlikely) collision.
func UniqueReferralCode(q Querier) (string, error) {
	for {
		code := models.NewCode(8)
		var exists int
		err := q.QueryRow("SELECT count(*) FROM resellers WHERE referral_code = ?", code).Scan(&exists)
		if err != nil {
			return "", err
		}
		if exists == 0 {
			return code, nil
		}
	}
}

// LinkReferral connects a freshly registered reseller to the owner of the
// given referral code and, when a fixed bonus is configured, credits the
// referrer immediately with a 'registration' audit row. Runs in the same
// transaction as the account insert; an unknown code is simply ignored so
// signup never fails on a mistyped code.
func LinkReferral(tx *sql.Tx, newResellerID int64, referralCode string) error {
	if referralCode == "" {
		return nil
	}

	var referrerID int64
	err := tx.QueryRow("SELECT id FROM resellers WHERE referral_code = ?", referralCode).Scan(&referrerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return err
	}

	if _, err := tx.Exec("UPDATE resellers SET referred_by = ? WHERE id = ?", referrerID, newResellerID); err != nil {
		return err
	}

	bonusType, err := GetSetting(tx, "referral_bonus_type")
	if err != nil {
		return err
	}
	if bonusType != "fixed" {
		// Percentage bonuses accrue per delivered order instead.
		return nil
	}

	amountRaw, err := GetSetting(tx, "referral_bonus_amount")
	if err != nil {
		return err
	}
	amount, err := strconv.ParseFloat(amountRaw, 64)
	if err != nil || amount <= 0 {
		return nil
	}

	if err := creditBalance(tx, referrerID, amount); err != nil {
		return err
	}
	if _, err := tx.Exec(`
		INSERT INTO referral_earnings (referrer_id, referred_id, amount, type)
		VALUES (?, ?, ?, ?)`,
		referrerID, newResellerID, amount, models.EarningRegistration); err != nil {
		return err
	}
	return addTransaction(tx, referrerID, models.TrxReferralBonus, amount,
		fmt.Sprintf("Signup bonus for referred reseller #%d", newResellerID))
}
