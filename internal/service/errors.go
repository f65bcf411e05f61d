package service

import "errors"

// 服务层哨兵错误，由 handlers 映射为统一响应
var (
	ErrNotFound             = errors.New("资源不存在")
	ErrInvalidCartLine      = errors.New("购物车条目无效")
	ErrCartStorageFailed    = errors.New("购物车保存失败")
	ErrProductNotAvailable  = errors.New("商品不可用")
	ErrInvalidCredentials   = errors.New("邮箱或密码错误")
	ErrInvalidEmail         = errors.New("邮箱地址无效")
	ErrInvalidPassword      = errors.New("密码不符合要求")
	ErrSessionRequired      = errors.New("缺少会话标识")
	ErrEmptyMessage         = errors.New("消息内容不能为空")
	ErrEmptyImage           = errors.New("图片内容为空")
	ErrPaymentDeclined      = errors.New("支付被拒绝")
	ErrPaymentIntentInvalid = errors.New("支付凭证无效")
	ErrPaymentAmountInvalid = errors.New("支付金额无效")
	ErrEmptyCart            = errors.New("购物车为空")
	ErrShippingInvalid      = errors.New("配送信息无效")
	ErrCaptchaRequired      = errors.New("需要验证码")
	ErrCaptchaInvalid       = errors.New("验证码校验失败")
)
