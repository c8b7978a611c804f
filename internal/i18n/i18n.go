// Package i18n holds the user-facing strings of the booking pages and
// mails for each supported locale.
package i18n

import "strings"

// Default is the locale used when none, or an unknown one, is requested.
const Default = "fr"

// Messages is the string table of one locale.
type Messages struct {
	Lang                string
	Name                string // language name shown in the switcher
	Dir                 string // "ltr" or "rtl"
	Title               string
	Date                string
	TimeSlot            string
	FullName            string
	Phone               string
	Email               string
	JLPTLevel           string
	SelectLevel         string
	Confirm             string
	Success             string
	Error               string
	NoSlots             string
	VerificationTitle   string
	VerificationMessage string
	VerifyCode          string
	SessionExpired      string
	CodeExpired         string
	InvalidCode         string
	SlotTaken           string
	InvalidLevel        string
	ServerError         string
	EmailSubject        string
	EmailBody           string // "{code}" is replaced by the verification code
	EmailError          string
	ConfirmationSubject string
	ConfirmationBody    string
	Redirecting         string
}

// CodeMail returns the verification mail body for code.
func (m Messages) CodeMail(code string) string {
	return strings.ReplaceAll(m.EmailBody, "{code}", code)
}

// Supported lists the locale codes in display order.
var Supported = []string{"fr", "en", "ja", "ar"}

// Lookup returns the table of lang and whether lang is supported.
func Lookup(lang string) (Messages, bool) {
	m, ok := tables[strings.ToLower(strings.TrimSpace(lang))]
	return m, ok
}

// Resolve returns the supported locale for lang, falling back to fallback
// and then to Default.
func Resolve(lang, fallback string) Messages {
	if m, ok := Lookup(lang); ok {
		return m
	}
	if m, ok := Lookup(fallback); ok {
		return m
	}
	return tables[Default]
}

// All returns every table in Supported order.
func All() []Messages {
	out := make([]Messages, 0, len(Supported))
	for _, l := range Supported {
		out = append(out, tables[l])
	}
	return out
}

var tables = map[string]Messages{
	"fr": {
		Lang:                "fr",
		Name:                "Français",
		Dir:                 "ltr",
		Title:               "Prise de rendez-vous pour l'inscription à l'examen JLPT",
		Date:                "Date",
		TimeSlot:            "Créneau horaire",
		FullName:            "Nom complet",
		Phone:               "Téléphone",
		Email:               "Email",
		JLPTLevel:           "Niveau JLPT",
		SelectLevel:         "Sélectionnez un niveau",
		Confirm:             "Confirmer le rendez-vous",
		Success:             "Rendez-vous enregistré avec succès",
		Error:               "Veuillez remplir tous les champs correctement",
		NoSlots:             "Aucun créneau disponible pour cette date",
		VerificationTitle:   "Vérification de l'email",
		VerificationMessage: "Un code de vérification a été envoyé à votre adresse email. Veuillez le saisir ci-dessous.",
		VerifyCode:          "Vérifier le code",
		SessionExpired:      "Session expirée",
		CodeExpired:         "Code expiré",
		InvalidCode:         "Code incorrect",
		SlotTaken:           "Ce créneau n'est plus disponible",
		InvalidLevel:        "Niveau JLPT invalide",
		ServerError:         "Une erreur est survenue. Veuillez réessayer.",
		EmailSubject:        "Code de vérification JLPT",
		EmailBody:           "Votre code de vérification pour le rendez-vous JLPT est : {code}\n\nCe code est valable pendant 10 minutes.",
		EmailError:          "Erreur lors de l'envoi de l'email. Veuillez réessayer.",
		ConfirmationSubject: "Confirmation de rendez-vous JLPT",
		ConfirmationBody:    "Veuillez trouver ci-joint votre confirmation de rendez-vous.",
		Redirecting:         "Redirection dans 3 secondes...",
	},
	"en": {
		Lang:                "en",
		Name:                "English",
		Dir:                 "ltr",
		Title:               "Appointment booking for JLPT exam registration",
		Date:                "Date",
		TimeSlot:            "Time Slot",
		FullName:            "Full Name",
		Phone:               "Phone",
		Email:               "Email",
		JLPTLevel:           "JLPT Level",
		SelectLevel:         "Select a level",
		Confirm:             "Confirm Appointment",
		Success:             "Appointment successfully registered",
		Error:               "Please fill all fields correctly",
		NoSlots:             "No time slot available on this date",
		VerificationTitle:   "Email verification",
		VerificationMessage: "A verification code has been sent to your email address. Please enter it below.",
		VerifyCode:          "Verify code",
		SessionExpired:      "Session expired",
		CodeExpired:         "Code expired",
		InvalidCode:         "Incorrect code",
		SlotTaken:           "This time slot is no longer available",
		InvalidLevel:        "Invalid JLPT level",
		ServerError:         "Something went wrong. Please try again.",
		EmailSubject:        "JLPT Verification Code",
		EmailBody:           "Your verification code for JLPT appointment is: {code}\n\nThis code is valid for 10 minutes.",
		EmailError:          "Error sending email. Please try again.",
		ConfirmationSubject: "JLPT appointment confirmation",
		ConfirmationBody:    "Please find your appointment confirmation attached.",
		Redirecting:         "Redirecting in 3 seconds...",
	},
	"ja": {
		Lang:                "ja",
		Name:                "日本語",
		Dir:                 "ltr",
		Title:               "JLPT試験申し込みの予約",
		Date:                "日付",
		TimeSlot:            "時間帯",
		FullName:            "氏名",
		Phone:               "電話番号",
		Email:               "メールアドレス",
		JLPTLevel:           "JLPT レベル",
		SelectLevel:         "レベルを選択してください",
		Confirm:             "予約を確認する",
		Success:             "予約が完了しました",
		Error:               "すべての項目を正しく入力してください",
		NoSlots:             "この日は空きがありません",
		VerificationTitle:   "メールアドレスの確認",
		VerificationMessage: "確認コードをメールで送信しました。下に入力してください。",
		VerifyCode:          "コードを確認",
		SessionExpired:      "セッションの有効期限が切れました",
		CodeExpired:         "コードの有効期限が切れました",
		InvalidCode:         "コードが正しくありません",
		SlotTaken:           "この時間帯はすでに予約されています",
		InvalidLevel:        "JLPTレベルが正しくありません",
		ServerError:         "エラーが発生しました。もう一度お試しください。",
		EmailSubject:        "あなたのJLPT検定確認コード",
		EmailBody:           "ここにあなたのJLPT検定確認コードがあります: {code}\n\nこのコードは10分間有効です。",
		EmailError:          "メール送信エラー",
		ConfirmationSubject: "JLPT予約確認",
		ConfirmationBody:    "予約確認書を添付しました。",
		Redirecting:         "3秒後にリダイレクトします...",
	},
	"ar": {
		Lang:                "ar",
		Name:                "العربية",
		Dir:                 "rtl",
		Title:               "JLPT حجز موعد للتسجيل في اختبار",
		Date:                "التاريخ",
		TimeSlot:            "الموعد",
		FullName:            "الاسم الكامل",
		Phone:               "رقم الهاتف",
		Email:               "البريد الإلكتروني",
		JLPTLevel:           "مستوى JLPT",
		SelectLevel:         "اختر المستوى",
		Confirm:             "تأكيد الموعد",
		Success:             "تم تسجيل الموعد بنجاح",
		Error:               "يرجى ملء جميع الحقول بشكل صحيح",
		NoSlots:             "لا توجد مواعيد متاحة في هذا التاريخ",
		VerificationTitle:   "التحقق من البريد الإلكتروني",
		VerificationMessage: "تم إرسال رمز التحقق إلى عنوان بريدك الإلكتروني. يرجى إدخاله أدناه.",
		VerifyCode:          "تحقق من الرمز",
		SessionExpired:      "انتهت الجلسة",
		CodeExpired:         "انتهت صلاحية الرمز",
		InvalidCode:         "رمز غير صحيح",
		SlotTaken:           "هذا الموعد لم يعد متاحا",
		InvalidLevel:        "مستوى JLPT غير صالح",
		ServerError:         "حدث خطأ. يرجى المحاولة مرة أخرى.",
		EmailSubject:        "رمز التحقق من JLPT",
		EmailBody:           "هنا رمز التحقق من JLPT: {code}\n\nهذا الرمز صالح لمدة 10 دقائق.",
		EmailError:          "خطأ عند إرسال البريد الإلكتروني",
		ConfirmationSubject: "تأكيد موعد JLPT",
		ConfirmationBody:    "تجدون مرفقا تأكيد موعدكم.",
		Redirecting:         "...إعادة توجيه في 3 ثوان",
	},
}
