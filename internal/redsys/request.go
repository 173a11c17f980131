package redsys

import (
	"fmt"
	"strconv"

	"github.com/LavaJover/shvark-redsys-service/internal/domain"
)

const (
	FieldAmount           = "DS_MERCHANT_AMOUNT"
	FieldOrder            = "DS_MERCHANT_ORDER"
	FieldMerchantCode     = "DS_MERCHANT_MERCHANTCODE"
	FieldCurrency         = "DS_MERCHANT_CURRENCY"
	FieldTransactionType  = "DS_MERCHANT_TRANSACTIONTYPE"
	FieldTerminal         = "DS_MERCHANT_TERMINAL"
	FieldMerchantURL      = "DS_MERCHANT_MERCHANTURL"
	FieldURLOK            = "DS_MERCHANT_URLOK"
	FieldURLKO            = "DS_MERCHANT_URLKO"
	FieldConsumerLanguage = "DS_MERCHANT_CONSUMERLANGUAGE"
	FieldMerchantName     = "DS_MERCHANT_MERCHANTNAME"
	FieldEMV3DS           = "DS_MERCHANT_EMV3DS"

	FieldNotifyOrder       = "Ds_Order"
	FieldNotifyResponse    = "Ds_Response"
	FieldNotifyAuthCode    = "Ds_AuthorizationCode"
	FieldNotifyAmount      = "Ds_Amount"
	FieldNotifyCurrency    = "Ds_Currency"
	FormSignatureVersion   = "Ds_SignatureVersion"
	FormMerchantParameters = "Ds_MerchantParameters"
	FormSignature          = "Ds_Signature"

	consumerLanguageSpanish = "001"
)

type Environment string

const (
	EnvironmentTesting    Environment = "testing"
	EnvironmentProduction Environment = "production"
)

const (
	testingURL    = "https://sis-t.redsys.es:25443/sis/realizarPago"
	productionURL = "https://sis.redsys.es/sis/realizarPago"
)

func (e Environment) Valid() bool {
	return e == EnvironmentTesting || e == EnvironmentProduction
}

// ActionURL is the form submission endpoint for the environment. Anything other than
// production maps to the sandbox.
func ActionURL(env Environment) string {
	if env == EnvironmentProduction {
		return productionURL
	}
	return testingURL
}

type MerchantConfig struct {
	MerchantCode    string
	Terminal        string
	SecretKey       string
	Currency        string
	TransactionType string
	MerchantName    string
	Environment     Environment
}

type CallbackURLs struct {
	Notify string
	OK     string
	KO     string
}

type PaymentRequest struct {
	SignatureVersion   string `json:"Ds_SignatureVersion"`
	MerchantParameters string `json:"Ds_MerchantParameters"`
	Signature          string `json:"Ds_Signature"`
	ActionURL          string `json:"action_url"`
}

type RequestBuilder struct {
	cfg MerchantConfig
}

func NewRequestBuilder(cfg MerchantConfig) *RequestBuilder {
	return &RequestBuilder{cfg: cfg}
}

func (b *RequestBuilder) Environment() Environment {
	return b.cfg.Environment
}

// Build assembles and signs the redirect form for an order. It performs no I/O.
func (b *RequestBuilder) Build(order *domain.Order, urls CallbackURLs) (*PaymentRequest, error) {
	if order == nil || order.ID == "" {
		return nil, fmt.Errorf("%w: empty order id", domain.ErrInvalidOrder)
	}
	if len(order.ID) > orderRefLength {
		return nil, fmt.Errorf("%w: %q", domain.ErrOrderRefTooLong, order.ID)
	}
	if order.AmountMinor <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive, got %d", domain.ErrInvalidOrder, order.AmountMinor)
	}

	orderRef := PadOrderRef(order.ID)

	params := NewParameters()
	params.Set(FieldAmount, strconv.FormatInt(order.AmountMinor, 10))
	params.Set(FieldOrder, orderRef)
	params.Set(FieldMerchantCode, b.cfg.MerchantCode)
	params.Set(FieldCurrency, b.cfg.Currency)
	params.Set(FieldTransactionType, b.cfg.TransactionType)
	params.Set(FieldTerminal, b.cfg.Terminal)
	params.Set(FieldMerchantURL, urls.Notify)
	params.Set(FieldURLOK, urls.OK)
	params.Set(FieldURLKO, urls.KO)
	params.Set(FieldConsumerLanguage, consumerLanguageSpanish)
	params.Set(FieldMerchantName, b.cfg.MerchantName)

	if email := order.Customer.Email; email != "" {
		value, err := marshalString(email)
		if err != nil {
			return nil, err
		}
		params.Set(FieldEMV3DS, `{"email":`+string(value)+`}`)
	}

	encoded, err := EncodeParameters(params)
	if err != nil {
		return nil, err
	}

	signature, err := Sign(orderRef, encoded, b.cfg.SecretKey)
	if err != nil {
		return nil, err
	}

	return &PaymentRequest{
		SignatureVersion:   SignatureVersion,
		MerchantParameters: encoded,
		Signature:          signature,
		ActionURL:          ActionURL(b.cfg.Environment),
	}, nil
}
