package service

import (
	"context"
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"PolyFluid/internal/errs"
	"PolyFluid/internal/interfaces"
)

// 1 SOL = 1e9 lamports
const lamportsExponent = 9

// RefundResult 退款成功的返回体，只包含可公开的信息
type RefundResult struct {
	Success   bool    `json:"success"`
	Signature string  `json:"signature"`
	Amount    float64 `json:"amount"`
	Message   string  `json:"message"`
}

// RefundService 从服务端钱包向用户地址退还 SOL。
// 无重试、无幂等：同一个 position_id 重复调用会产生两笔独立转账
type RefundService struct {
	chain  interfaces.ChainClient // 为 nil 表示未配置私钥
	logger *logrus.Logger
}

func NewRefundService(chain interfaces.ChainClient, logger *logrus.Logger) *RefundService {
	return &RefundService{chain: chain, logger: logger}
}

// ToLamports SOL -> lamports，截断小数部分
func ToLamports(amountSOL float64) (uint64, error) {
	if math.IsNaN(amountSOL) || math.IsInf(amountSOL, 0) || amountSOL <= 0 {
		return 0, errs.New(errs.KindInvalidInput, "amount_sol must be greater than 0")
	}
	d := decimal.NewFromFloat(amountSOL).Shift(lamportsExponent).Truncate(0)
	if d.GreaterThan(decimal.NewFromInt(math.MaxInt64)) {
		return 0, errs.New(errs.KindInvalidInput, "amount_sol is too large")
	}
	lamports := d.IntPart()
	if lamports <= 0 {
		return 0, errs.New(errs.KindInvalidInput, "amount_sol is below 1 lamport")
	}
	return uint64(lamports), nil
}

// Refund 校验参数 -> 查余额 -> 转账。余额不足时不提交任何交易
func (s *RefundService) Refund(ctx context.Context, positionID, recipient string, amountSOL float64) (RefundResult, error) {
	recipient = strings.TrimSpace(recipient)
	if recipient == "" {
		return RefundResult{}, errs.New(errs.KindInvalidInput, "wallet_address is required")
	}
	lamports, err := ToLamports(amountSOL)
	if err != nil {
		return RefundResult{}, err
	}
	if s.chain == nil {
		return RefundResult{}, errs.New(errs.KindChain, "refund service unavailable")
	}
	if err := s.chain.ValidateAddress(recipient); err != nil {
		return RefundResult{}, errs.Wrap(errs.KindInvalidInput, "invalid wallet_address", err)
	}

	log := s.logger.WithFields(logrus.Fields{
		"position_id": positionID,
		"from":        s.chain.PayerAddress(),
		"recipient":   recipient,
		"lamports":    lamports,
	})

	balance, err := s.chain.Balance(ctx)
	if err != nil {
		log.WithError(err).Error("查询退款钱包余额失败")
		return RefundResult{}, errs.Wrap(errs.KindChain, "failed to close position", err)
	}
	if balance < lamports {
		log.WithField("balance", balance).Warn("退款钱包余额不足")
		return RefundResult{}, errs.New(errs.KindInsufficientBalance, "insufficient balance")
	}

	sig, err := s.chain.Transfer(ctx, recipient, lamports)
	if err != nil {
		log.WithError(err).Error("退款交易提交失败")
		return RefundResult{}, errs.Wrap(errs.KindChain, "failed to close position", err)
	}
	log.WithField("signature", sig).Info("退款成功")
	return RefundResult{
		Success:   true,
		Signature: sig,
		Amount:    amountSOL,
		Message:   "Position closed and SOL refunded successfully",
	}, nil
}
