package i18n

import "cleanbot/pkg/config"

// catalogs hold every user-visible string per language. Keys are shared
// across languages; the Russian catalog is the reference set.
var catalogs = map[string]map[string]string{
	config.LangRussian: {
		// Greetings and language selection.
		"choose_language": "Здравствуйте! Выберите язык обслуживания:",
		"language_set":    "Язык установлен: русский.",

		// Service selection.
		"choose_service":     "Что будем чистить?",
		"carpet_description": "Химчистка ковров: {price} сум за м². При заказе от {threshold} ковров — скидка {discount}%.",
		"sofa_description":   "Химчистка мягкой мебели. Цена зависит от типа мебели.",

		// Quantity.
		"select_quantity":      "Сколько ковров нужно почистить?",
		"select_quantity_sofa": "Сколько предметов мебели нужно почистить?",
		"enter_custom_quantity": "Введите количество числом (от {min} до {max}):",

		// Per-item collection.
		"select_size_carpet": "Размер ковра {current} из {total}. Выберите готовый вариант или укажите свой:",
		"select_type_sofa":   "Предмет {current} из {total}. Выберите тип мебели:",
		"enter_custom_size":  "Введите размер в метрах, например 2.5x3:",

		// Address.
		"choose_address_method": "Как укажете адрес?",
		"enter_address":         "Напишите адрес текстом (улица, дом, ориентир):",
		"send_location":         "Отправьте геолокацию кнопкой ниже:",
		"location_received":     "Геолокация получена.",

		// Contact details.
		"enter_name":  "Как к вам обращаться? Введите имя и фамилию:",
		"enter_phone": "Укажите номер телефона или поделитесь контактом:",

		// Comment.
		"enter_comment":  "Напишите комментарий к заказу:",
		"comment_saved":  "Комментарий сохранён.",

		// Summary and confirmation.
		"summary_header":       "Проверьте заказ:",
		"summary_service":      "Услуга: {service}",
		"service_carpet":       "химчистка ковров",
		"service_sofa":         "химчистка мебели",
		"summary_item_carpet":  "Ковёр {n}: {size} м ({area} м²)",
		"summary_item_sofa":    "Предмет {n}: {type}",
		"summary_address":      "Адрес: {address}",
		"summary_address_geo":  "Адрес: геолокация ({lat}, {lon})",
		"summary_name":         "Имя: {name}",
		"summary_phone":        "Телефон: {phone}",
		"summary_comment":      "Комментарий: {comment}",
		"summary_total_area":   "Общая площадь: {area} м²",
		"summary_base_cost":    "Стоимость: {cost} сум",
		"summary_discount":     "Скидка: −{amount} сум",
		"summary_final_cost":   "Итого: {cost} сум",

		// Sofa types.
		"sofa_2_seat":   "двухместный диван",
		"sofa_3_seat":   "трёхместный диван",
		"sofa_corner":   "угловой диван",
		"sofa_armchair": "кресло",

		// Order outcome.
		"order_confirmed":     "Заказ №{number} принят! Мы свяжемся с вами в ближайшее время.",
		"order_submit_failed": "Не удалось оформить заказ. Попробуйте ещё раз.",
		"order_cancelled":     "Заказ отменён. Чтобы начать заново, нажмите /start.",

		// Edit.
		"edit_prompt": "Что нужно изменить?",

		// Rating and feedback.
		"rate_order":            "Оцените заказ №{number}:",
		"rating_thanks":         "Спасибо за оценку {stars}!",
		"write_feedback_prompt": "Напишите отзыв о работе:",
		"feedback_thanks":       "Спасибо за отзыв!",
		"feedback_skipped":      "Хорошо, без отзыва.",

		// My orders.
		"my_orders_title":  "Ваши заказы:",
		"my_orders_entry":  "№{number} от {date} — {status}, {cost} сум",
		"no_orders":        "У вас пока нет заказов.",
		"status_pending":     "ожидает подтверждения",
		"status_accepted":    "принят",
		"status_in_progress": "выполняется",
		"status_completed":   "выполнен",
		"status_cancelled":   "отменён",

		// Help and misc.
		"help_text":       "Служба химчистки. Телефон: {phone}. Режим работы: {hours}. Чтобы оформить заказ, нажмите /start.",
		"unknown_command": "Не понимаю. Нажмите /start, чтобы оформить заказ.",

		// Buttons.
		"btn_lang_ru":          "Русский 🇷🇺",
		"btn_lang_uz":          "O'zbekcha 🇺🇿",
		"btn_carpet":           "Ковры",
		"btn_sofa":             "Мягкая мебель",
		"btn_back":             "⬅️ Назад",
		"btn_order_now":        "Заказать",
		"btn_qty_more":         "Больше",
		"btn_custom_size":      "Другой размер",
		"btn_address_manual":   "Ввести текстом",
		"btn_address_location": "Отправить геолокацию",
		"btn_share_location":   "📍 Отправить геолокацию",
		"btn_share_contact":    "📱 Поделиться контактом",
		"btn_confirm":          "✅ Подтвердить",
		"btn_edit":             "✏️ Изменить",
		"btn_add_comment":      "💬 Добавить комментарий",
		"btn_new_order":        "Новый заказ",
		"btn_my_orders":        "Мои заказы",
		"btn_edit_service":     "Услугу",
		"btn_edit_quantity":    "Количество",
		"btn_edit_sizes":       "Размеры",
		"btn_edit_address":     "Адрес",
		"btn_edit_name":        "Имя",
		"btn_edit_phone":       "Телефон",
		"btn_write_feedback":   "Написать отзыв",
		"btn_skip":             "Пропустить",

		// Validation errors.
		"err_name_too_short":    "Имя слишком короткое, минимум {min} символов.",
		"err_name_too_long":     "Имя слишком длинное, максимум {max} символов.",
		"err_name_no_letters":   "Имя должно содержать буквы.",
		"err_name_bad_chars":    "Имя содержит недопустимые символы.",
		"err_name_spaces":       "Уберите лишние пробелы в имени.",
		"err_phone_country":     "Принимаются только узбекские номера (+998).",
		"err_phone_format":      "Неверный формат номера. Пример: +998 90 123-45-67.",
		"err_quantity_not_number": "Введите количество числом.",
		"err_quantity_range":    "Количество должно быть от {min} до {max}.",
		"err_size_format":       "Неверный формат. Пример: 2.5x3.",
		"err_size_width_range":  "Ширина должна быть от {min} до {max} м.",
		"err_size_height_range": "Длина должна быть от {min} до {max} м.",
		"err_comment_too_short": "Комментарий слишком короткий, минимум {min} символов.",
		"err_comment_too_long":  "Комментарий слишком длинный, максимум {max} символов.",
		"err_address_too_short": "Адрес слишком короткий, минимум {min} символов.",
	},

	config.LangUzbek: {
		"choose_language": "Assalomu alaykum! Xizmat tilini tanlang:",
		"language_set":    "Til tanlandi: o'zbekcha.",

		"choose_service":     "Nimani tozalaymiz?",
		"carpet_description": "Gilam tozalash: har m² uchun {price} so'm. {threshold} ta va undan ko'p gilam uchun {discount}% chegirma.",
		"sofa_description":   "Yumshoq mebel tozalash. Narx mebel turiga bog'liq.",

		"select_quantity":      "Nechta gilam tozalash kerak?",
		"select_quantity_sofa": "Nechta mebel tozalash kerak?",
		"enter_custom_quantity": "Miqdorni raqam bilan kiriting ({min} dan {max} gacha):",

		"select_size_carpet": "{total} tadan {current}-gilam o'lchami. Tayyor variantni tanlang yoki o'zingiznikini kiriting:",
		"select_type_sofa":   "{total} tadan {current}-mebel. Mebel turini tanlang:",
		"enter_custom_size":  "O'lchamni metrda kiriting, masalan 2.5x3:",

		"choose_address_method": "Manzilni qanday ko'rsatasiz?",
		"enter_address":         "Manzilni yozing (ko'cha, uy, mo'ljal):",
		"send_location":         "Quyidagi tugma orqali joylashuvni yuboring:",
		"location_received":     "Joylashuv qabul qilindi.",

		"enter_name":  "Sizga qanday murojaat qilamiz? Ism va familiyangizni kiriting:",
		"enter_phone": "Telefon raqamingizni kiriting yoki kontaktni ulashing:",

		"enter_comment": "Buyurtmaga izoh yozing:",
		"comment_saved": "Izoh saqlandi.",

		"summary_header":      "Buyurtmani tekshiring:",
		"summary_service":     "Xizmat: {service}",
		"service_carpet":      "gilam tozalash",
		"service_sofa":        "mebel tozalash",
		"summary_item_carpet": "Gilam {n}: {size} m ({area} m²)",
		"summary_item_sofa":   "Mebel {n}: {type}",
		"summary_address":     "Manzil: {address}",
		"summary_address_geo": "Manzil: joylashuv ({lat}, {lon})",
		"summary_name":        "Ism: {name}",
		"summary_phone":       "Telefon: {phone}",
		"summary_comment":     "Izoh: {comment}",
		"summary_total_area":  "Umumiy maydon: {area} m²",
		"summary_base_cost":   "Narx: {cost} so'm",
		"summary_discount":    "Chegirma: −{amount} so'm",
		"summary_final_cost":  "Jami: {cost} so'm",

		"sofa_2_seat":   "ikki o'rinli divan",
		"sofa_3_seat":   "uch o'rinli divan",
		"sofa_corner":   "burchak divan",
		"sofa_armchair": "kreslo",

		"order_confirmed":     "№{number} buyurtma qabul qilindi! Tez orada siz bilan bog'lanamiz.",
		"order_submit_failed": "Buyurtmani rasmiylashtirib bo'lmadi. Yana urinib ko'ring.",
		"order_cancelled":     "Buyurtma bekor qilindi. Qaytadan boshlash uchun /start bosing.",

		"edit_prompt": "Nimani o'zgartiramiz?",

		"rate_order":            "№{number} buyurtmani baholang:",
		"rating_thanks":         "{stars} baho uchun rahmat!",
		"write_feedback_prompt": "Xizmat haqida fikringizni yozing:",
		"feedback_thanks":       "Fikringiz uchun rahmat!",
		"feedback_skipped":      "Yaxshi, fikrsiz davom etamiz.",

		"my_orders_title": "Buyurtmalaringiz:",
		"my_orders_entry": "№{number}, {date} — {status}, {cost} so'm",
		"no_orders":       "Sizda hali buyurtma yo'q.",
		"status_pending":     "tasdiqlanishi kutilmoqda",
		"status_accepted":    "qabul qilindi",
		"status_in_progress": "bajarilmoqda",
		"status_completed":   "bajarildi",
		"status_cancelled":   "bekor qilindi",

		"help_text":       "Kimyoviy tozalash xizmati. Telefon: {phone}. Ish vaqti: {hours}. Buyurtma berish uchun /start bosing.",
		"unknown_command": "Tushunmadim. Buyurtma berish uchun /start bosing.",

		"btn_lang_ru":          "Русский 🇷🇺",
		"btn_lang_uz":          "O'zbekcha 🇺🇿",
		"btn_carpet":           "Gilamlar",
		"btn_sofa":             "Yumshoq mebel",
		"btn_back":             "⬅️ Orqaga",
		"btn_order_now":        "Buyurtma berish",
		"btn_qty_more":         "Ko'proq",
		"btn_custom_size":      "Boshqa o'lcham",
		"btn_address_manual":   "Matn bilan kiritish",
		"btn_address_location": "Joylashuv yuborish",
		"btn_share_location":   "📍 Joylashuv yuborish",
		"btn_share_contact":    "📱 Kontaktni ulashish",
		"btn_confirm":          "✅ Tasdiqlash",
		"btn_edit":             "✏️ O'zgartirish",
		"btn_add_comment":      "💬 Izoh qo'shish",
		"btn_new_order":        "Yangi buyurtma",
		"btn_my_orders":        "Buyurtmalarim",
		"btn_edit_service":     "Xizmatni",
		"btn_edit_quantity":    "Miqdorni",
		"btn_edit_sizes":       "O'lchamlarni",
		"btn_edit_address":     "Manzilni",
		"btn_edit_name":        "Ismni",
		"btn_edit_phone":       "Telefonni",
		"btn_write_feedback":   "Fikr yozish",
		"btn_skip":             "O'tkazib yuborish",

		"err_name_too_short":    "Ism juda qisqa, kamida {min} belgi.",
		"err_name_too_long":     "Ism juda uzun, ko'pi bilan {max} belgi.",
		"err_name_no_letters":   "Ismda harflar bo'lishi kerak.",
		"err_name_bad_chars":    "Ismda ruxsat etilmagan belgilar bor.",
		"err_name_spaces":       "Ismdagi ortiqcha bo'shliqlarni olib tashlang.",
		"err_phone_country":     "Faqat O'zbekiston raqamlari qabul qilinadi (+998).",
		"err_phone_format":      "Raqam formati noto'g'ri. Namuna: +998 90 123-45-67.",
		"err_quantity_not_number": "Miqdorni raqam bilan kiriting.",
		"err_quantity_range":    "Miqdor {min} dan {max} gacha bo'lishi kerak.",
		"err_size_format":       "Format noto'g'ri. Namuna: 2.5x3.",
		"err_size_width_range":  "Eni {min} dan {max} m gacha bo'lishi kerak.",
		"err_size_height_range": "Bo'yi {min} dan {max} m gacha bo'lishi kerak.",
		"err_comment_too_short": "Izoh juda qisqa, kamida {min} belgi.",
		"err_comment_too_long":  "Izoh juda uzun, ko'pi bilan {max} belgi.",
		"err_address_too_short": "Manzil juda qisqa, kamida {min} belgi.",
	},
}
