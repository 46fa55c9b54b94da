package chain

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/sirupsen/logrus"

	"PolyFluid/internal/config"
)

const redacted = "[redacted]"

// ErrNoKey 未配置 SOLANA_PRIVATE_KEY
var ErrNoKey = errors.New("solana: private key not configured")

// Signer 服务端热钱包私钥，进程生命周期内只读。
// 任何格式化/序列化都只输出 [redacted]
type Signer struct {
	key solana.PrivateKey
	pub solana.PublicKey
}

// NewSigner 解析 base58 编码的 64 字节私钥。错误信息不包含输入内容
func NewSigner(base58Key string) (*Signer, error) {
	base58Key = strings.TrimSpace(base58Key)
	if base58Key == "" {
		return nil, ErrNoKey
	}
	key, err := solana.PrivateKeyFromBase58(base58Key)
	if err != nil {
		return nil, errors.New("solana: private key is not valid base58")
	}
	if len(key) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("solana: private key must be %d bytes, got %d", ed25519.PrivateKeySize, len(key))
	}
	derived := ed25519.NewKeyFromSeed(key[:ed25519.SeedSize])
	if !bytes.Equal(derived[ed25519.SeedSize:], key[ed25519.SeedSize:]) {
		return nil, errors.New("solana: private key public half does not match seed")
	}
	return &Signer{key: key, pub: key.PublicKey()}, nil
}

// PublicKey 钱包地址
func (s *Signer) PublicKey() solana.PublicKey { return s.pub }

func (s *Signer) sign(tx *solana.Transaction) error {
	_, err := tx.Sign(func(k solana.PublicKey) *solana.PrivateKey {
		if k.Equals(s.pub) {
			return &s.key
		}
		return nil
	})
	return err
}

func (s *Signer) String() string   { return redacted }
func (s *Signer) GoString() string { return redacted }

// Format 覆盖所有 fmt 动词（%v %+v %#v %s %x ...）
func (s *Signer) Format(f fmt.State, _ rune) { _, _ = io.WriteString(f, redacted) }

func (s *Signer) MarshalJSON() ([]byte, error) { return []byte(`"` + redacted + `"`), nil }
func (s *Signer) MarshalText() ([]byte, error) { return []byte(redacted), nil }

// SolanaClient 查询余额并发送单笔 SOL 转账
type SolanaClient struct {
	rpc     *rpc.Client
	signer  *Signer
	timeout time.Duration
	logger  *logrus.Logger
}

// NewSolanaClient 创建客户端，私钥只在这里解析一次
func NewSolanaClient(cfg config.SolanaConfig, logger *logrus.Logger) (*SolanaClient, error) {
	signer, err := NewSigner(cfg.PrivateKey)
	if err != nil {
		return nil, err
	}
	if cfg.RPCURL == "" {
		return nil, errors.New("solana: rpc_url 必填")
	}
	c := &SolanaClient{
		rpc:     rpc.New(cfg.RPCURL),
		signer:  signer,
		timeout: cfg.RequestTimeout(),
		logger:  logger,
	}
	logger.WithField("wallet", signer.PublicKey().String()).Info("Solana 退款钱包已加载")
	return c, nil
}

// PayerAddress 服务端钱包地址
func (c *SolanaClient) PayerAddress() string { return c.signer.PublicKey().String() }

// ValidateAddress 校验 base58 公钥
func (c *SolanaClient) ValidateAddress(address string) error {
	if _, err := solana.PublicKeyFromBase58(strings.TrimSpace(address)); err != nil {
		return fmt.Errorf("invalid solana address: %w", err)
	}
	return nil
}

// Balance 服务端钱包余额（lamports）
func (c *SolanaClient) Balance(ctx context.Context) (uint64, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	res, err := c.rpc.GetBalance(ctx, c.signer.PublicKey(), rpc.CommitmentFinalized)
	if err != nil {
		return 0, fmt.Errorf("get balance: %w", err)
	}
	return res.Value, nil
}

// Transfer 签名并提交一笔系统转账，返回交易签名。不重试
func (c *SolanaClient) Transfer(ctx context.Context, recipient string, lamports uint64) (string, error) {
	if lamports == 0 {
		return "", errors.New("lamports must be > 0")
	}
	to, err := solana.PublicKeyFromBase58(strings.TrimSpace(recipient))
	if err != nil {
		return "", fmt.Errorf("invalid recipient: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	recent, err := c.rpc.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return "", fmt.Errorf("get latest blockhash: %w", err)
	}

	from := c.signer.PublicKey()
	tx, err := solana.NewTransaction(
		[]solana.Instruction{
			system.NewTransferInstruction(lamports, from, to).Build(),
		},
		recent.Value.Blockhash,
		solana.TransactionPayer(from),
	)
	if err != nil {
		return "", fmt.Errorf("build tx: %w", err)
	}
	if err := c.signer.sign(tx); err != nil {
		return "", fmt.Errorf("sign tx: %w", err)
	}

	sig, err := c.rpc.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		PreflightCommitment: rpc.CommitmentFinalized,
	})
	if err != nil {
		return "", fmt.Errorf("send tx: %w", err)
	}
	c.logger.WithFields(logrus.Fields{
		"signature": sig.String(),
		"lamports":  lamports,
	}).Info("退款交易已提交")
	return sig.String(), nil
}

func (c *SolanaClient) String() string { return "SolanaClient(" + c.PayerAddress() + ")" }
